package notifications

import (
	"context"
	"errors"
	"fmt"

	"eventra/internal/domain/pushtokens"

	"github.com/9ssi7/exponent"
	"github.com/google/uuid"
)

type ReviewDecision string

const (
	DecisionApproved  ReviewDecision = "approved"
	DecisionRejected  ReviewDecision = "rejected"
	DecisionSuspended ReviewDecision = "suspended"
)

// SendReviewDecision pushes the outcome of an admin review to every device
// the vendor's owner has registered.
func SendReviewDecision(ctx context.Context, push PushSender, tokens pushtokens.Store, userID uuid.UUID, decision ReviewDecision, businessName string) error {
	registered, err := tokens.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(registered) == 0 {
		return errors.New("no push tokens")
	}

	var title, body string
	switch decision {
	case DecisionApproved:
		title = "You're approved!"
		body = fmt.Sprintf("%s is now live on Eventra. Customers can find your card and place orders.", businessName)
	case DecisionRejected:
		title = "Application update"
		body = fmt.Sprintf("Your application for %s was not approved. Check your email for details.", businessName)
	case DecisionSuspended:
		title = "Account suspended"
		body = fmt.Sprintf("%s has been suspended. Contact support for next steps.", businessName)
	default:
		title = "Account update"
		body = fmt.Sprintf("There is an update on %s.", businessName)
	}

	msgs := make([]*exponent.Message, 0, len(registered))
	for _, t := range registered {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}
