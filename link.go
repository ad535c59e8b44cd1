package unify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/unify/internal/storage/sqlite"
	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/logging"
	"github.com/agentstation/unify/pkg/normalize"
	"github.com/agentstation/unify/pkg/sources"
)

// transferNamespace is the UUID namespace for synthesized transfer ids.
// The feed carries no transfer id of its own; deriving one from the
// transfer's content keeps re-ingestion idempotent.
var transferNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("unify.transfer"))

// linkDependents resolves each dependent record's person reference
// against the canonical people written earlier in the same batch, then
// writes the resolved records. Unresolved references are rejected and
// reported, never written with a dangling reference; a store error is
// fatal to the batch.
func (u *unify) linkDependents(ctx context.Context, batch *sqlite.Batch, input Input, result *Result) error {
	if err := u.linkTransactions(ctx, batch, input.Transactions, result); err != nil {
		return err
	}
	if err := u.linkTransfers(ctx, batch, input.Transfers, result); err != nil {
		return err
	}
	return u.linkPromotions(ctx, batch, input.Promotions, result)
}

func (u *unify) linkTransactions(ctx context.Context, batch *sqlite.Batch, raw []sources.RawTransaction, result *Result) error {
	log := logging.Ctx(ctx)

	for _, txn := range raw {
		phone := strings.TrimSpace(txn.Phone)
		personID, err := batch.PersonIDByPhone(ctx, phone)
		if errors.IsNotFound(err) {
			reject := RejectedDependent{
				Entity:    "transaction",
				EntityID:  txn.ID,
				Reference: phone,
				Err:       errors.NewUnresolvedReferenceError("transaction", txn.ID, phone),
			}
			result.RejectedDependents = append(result.RejectedDependents, reject)
			log.Warn().Str("transaction_id", txn.ID).Str("phone", phone).Msg("Rejected transaction")
			continue
		}
		if err != nil {
			return err
		}

		linked := canon.Transaction{
			ID:        txn.ID,
			PersonID:  personID,
			ClientRef: phone,
			Store:     strings.TrimSpace(txn.Store),
			Timestamp: parseDate(txn.Date),
		}
		// Child items carry no ordering field; their ordinal within the
		// transaction preserves source order, and stays stable no matter
		// how the containing batch is composed.
		for seq, item := range txn.Items {
			linked.Items = append(linked.Items, canon.TransactionItem{
				TransactionID: txn.ID,
				Seq:           seq,
				Name:          strings.TrimSpace(item.Name),
				UnitPrice:     item.PricePerItem,
				LineTotal:     item.Price,
				Quantity:      item.Quantity,
			})
		}

		if err := batch.InsertTransaction(ctx, linked); err != nil {
			return err
		}
		result.TransactionsWritten++
		result.ItemsWritten += len(linked.Items)
	}
	return nil
}

func (u *unify) linkTransfers(ctx context.Context, batch *sqlite.Batch, raw []sources.RawTransfer, result *Result) error {
	log := logging.Ctx(ctx)

	for i, transfer := range raw {
		senderID, err := u.resolveRef(ctx, batch, transfer.SenderRef)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
		recipientID, recipientErr := u.resolveRef(ctx, batch, transfer.RecipientRef)
		if recipientErr != nil && !errors.IsNotFound(recipientErr) {
			return recipientErr
		}

		// Both ends must resolve; a transfer with one dangling end is
		// rejected whole.
		if err != nil || recipientErr != nil {
			ref := transfer.SenderRef
			if err == nil {
				ref = transfer.RecipientRef
			}
			entityID := fmt.Sprintf("%s->%s", transfer.SenderRef, transfer.RecipientRef)
			result.RejectedDependents = append(result.RejectedDependents, RejectedDependent{
				Entity:    "transfer",
				EntityID:  entityID,
				Reference: ref,
				Err:       errors.NewUnresolvedReferenceError("transfer", entityID, ref),
			})
			log.Warn().Str("sender", transfer.SenderRef).Str("recipient", transfer.RecipientRef).Msg("Rejected transfer")
			continue
		}

		linked := canon.Transfer{
			ID:           synthesizeTransferID(transfer, i),
			SenderID:     senderID,
			RecipientID:  recipientID,
			SenderRef:    transfer.SenderRef,
			RecipientRef: transfer.RecipientRef,
			Amount:       transfer.Amount,
			Date:         parseDate(transfer.Date),
		}
		if err := batch.InsertTransfer(ctx, linked); err != nil {
			return err
		}
		result.TransfersWritten++
	}
	return nil
}

func (u *unify) linkPromotions(ctx context.Context, batch *sqlite.Batch, raw []sources.RawPromotion, result *Result) error {
	log := logging.Ctx(ctx)

	for _, promo := range raw {
		ref := strings.TrimSpace(promo.ClientRef())
		personID, err := batch.PersonIDByEmail(ctx, ref)
		if errors.IsNotFound(err) {
			personID, err = batch.PersonIDByPhone(ctx, ref)
		}
		if errors.IsNotFound(err) {
			promoID := normalize.PadID(promo.ID)
			result.RejectedDependents = append(result.RejectedDependents, RejectedDependent{
				Entity:    "promotion",
				EntityID:  promoID,
				Reference: ref,
				Err:       errors.NewUnresolvedReferenceError("promotion", promoID, ref),
			})
			log.Warn().Str("promotion_id", promoID).Str("ref", ref).Msg("Rejected promotion")
			continue
		}
		if err != nil {
			return err
		}

		linked := canon.Promotion{
			ID:        normalize.PadID(promo.ID),
			PersonID:  personID,
			ClientRef: ref,
			Item:      strings.TrimSpace(promo.Promotion),
			Responded: promo.Responded,
		}
		if err := batch.InsertPromotion(ctx, linked); err != nil {
			return err
		}
		result.PromotionsWritten++
	}
	return nil
}

// resolveRef resolves a transfer endpoint, which is either a person's
// external id or a phone number.
func (u *unify) resolveRef(ctx context.Context, batch *sqlite.Batch, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.ErrNotFound
	}

	padded := normalize.PadID(ref)
	exists, err := batch.PersonExists(ctx, padded)
	if err != nil {
		return "", err
	}
	if exists {
		return padded, nil
	}
	return batch.PersonIDByPhone(ctx, ref)
}

// synthesizeTransferID derives a stable id for a transfer record. The
// batch ordinal disambiguates genuinely repeated transfers (same ends,
// amount, and date) within one feed.
func synthesizeTransferID(transfer sources.RawTransfer, ordinal int) string {
	key := fmt.Sprintf("%s|%s|%.2f|%s|%d",
		transfer.SenderRef, transfer.RecipientRef, transfer.Amount, transfer.Date, ordinal)
	return uuid.NewSHA1(transferNamespace, []byte(key)).String()
}

// parseDate accepts the date spellings seen in the feeds: a bare date
// or a full RFC 3339 timestamp. Anything else yields the zero time.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
