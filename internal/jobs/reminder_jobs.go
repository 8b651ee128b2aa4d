package jobs

import (
	"context"
	"strings"
	"time"

	"tinytribe-backend/internal/logger"
)

// SendRequestReminders emails the accepted members of each group that has a
// childcare request scheduled for tomorrow.
func (jr *JobRunner) SendRequestReminders() {
	jr.runWithRecovery("SendRequestReminders", func() {
		ctx := context.Background()
		tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

		requests, err := jr.store.RequestRepository.ListByDate(ctx, tomorrow)
		if err != nil {
			logger.Error("Failed to list tomorrow's requests", "error", err)
			return
		}
		logger.Info("Sending request reminders", "date", tomorrow, "requests", len(requests))

		for _, req := range requests {
			group, err := jr.store.GroupRepository.GetByID(ctx, req.GroupID)
			if err != nil {
				logger.Error("Failed to load group for reminder", "group_id", req.GroupID, "error", err)
				continue
			}

			for _, member := range group.Members {
				if member.Identity == req.RequesterIdentity {
					continue
				}
				if !strings.Contains(member.Identity, "@") {
					continue
				}
				if err := jr.services.Email.SendRequestReminder(ctx, member.Identity, req.RequesterName, req.Date, req.IsUrgent); err != nil {
					logger.Error("Failed to send request reminder", "to", member.Identity, "error", err)
				}
			}
		}
	})
}

// SendInviteNudges re-sends the invite link to invitees that never accepted.
func (jr *JobRunner) SendInviteNudges() {
	jr.runWithRecovery("SendInviteNudges", func() {
		ctx := context.Background()

		ids, err := jr.store.GroupRepository.ListIDsWithPendingInvitees(ctx)
		if err != nil {
			logger.Error("Failed to list groups with pending invitees", "error", err)
			return
		}
		logger.Info("Sending invite nudges", "groups", len(ids))

		for _, id := range ids {
			link, err := jr.services.Groups.InviteLink(ctx, id)
			if err != nil {
				logger.Error("Failed to build invite link", "group_id", id, "error", err)
				continue
			}

			group, err := jr.store.GroupRepository.GetByID(ctx, id)
			if err != nil {
				logger.Error("Failed to load group for nudge", "group_id", id, "error", err)
				continue
			}

			for _, invitee := range group.Invitees {
				if !strings.Contains(invitee.Identity, "@") {
					continue
				}
				if err := jr.services.Email.SendInvitation(ctx, invitee.Identity, group.Name, link); err != nil {
					logger.Error("Failed to send invite nudge", "to", invitee.Identity, "error", err)
				}
			}
		}
	})
}
