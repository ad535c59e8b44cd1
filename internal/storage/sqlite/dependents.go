package sqlite

import (
	"context"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
)

// InsertTransaction writes one transaction and its line items,
// replacing a previously ingested copy of the same transaction —
// including its full item set — so re-ingestion is a no-op. PersonID
// must already resolve to a stored person: the foreign key rejects
// anything else, which surfaces as a typed constraint error.
func (b *Batch) InsertTransaction(ctx context.Context, txn canon.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if txn.ID == "" {
		return errors.NewValidationError("transaction_id", txn.ID, "cannot be empty")
	}

	if _, err := b.tx.ExecContext(ctx,
		`INSERT INTO transactions (transaction_id, person_id, client_ref, store, occurred_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (transaction_id) DO UPDATE SET
		   person_id   = excluded.person_id,
		   client_ref  = excluded.client_ref,
		   store       = excluded.store,
		   occurred_at = excluded.occurred_at`,
		txn.ID,
		txn.PersonID,
		txn.ClientRef,
		txn.Store,
		toMillis(txn.Timestamp),
	); err != nil {
		return wrapWrite("transactions", err)
	}

	// Rewrite the item set wholesale: a re-ingested transaction must not
	// keep item rows from an earlier ingestion.
	if _, err := b.tx.ExecContext(ctx,
		"DELETE FROM transaction_items WHERE transaction_id = ?", txn.ID,
	); err != nil {
		return wrapWrite("transaction_items", err)
	}
	for _, item := range txn.Items {
		if _, err := b.tx.ExecContext(ctx,
			`INSERT INTO transaction_items (transaction_id, seq, item_name, unit_price, line_total, quantity)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			txn.ID,
			item.Seq,
			item.Name,
			item.UnitPrice,
			item.LineTotal,
			item.Quantity,
		); err != nil {
			return wrapWrite("transaction_items", err)
		}
	}

	return nil
}

// InsertTransfer writes one person-to-person transfer. Both ends must
// already resolve to stored people.
func (b *Batch) InsertTransfer(ctx context.Context, transfer canon.Transfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if transfer.ID == "" {
		return errors.NewValidationError("transfer_id", transfer.ID, "cannot be empty")
	}

	_, err := b.tx.ExecContext(ctx,
		`INSERT INTO transfers (transfer_id, sender_id, recipient_id, amount, occurred_on)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (transfer_id) DO NOTHING`,
		transfer.ID,
		transfer.SenderID,
		transfer.RecipientID,
		transfer.Amount,
		toMillis(transfer.Date),
	)
	return wrapWrite("transfers", err)
}

// InsertPromotion writes one promotion record.
func (b *Batch) InsertPromotion(ctx context.Context, promo canon.Promotion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if promo.ID == "" {
		return errors.NewValidationError("promotion_id", promo.ID, "cannot be empty")
	}

	responded := 0
	if promo.Responded {
		responded = 1
	}
	_, err := b.tx.ExecContext(ctx,
		`INSERT INTO promotions (promotion_id, person_id, client_ref, item, responded)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (promotion_id) DO UPDATE SET
		   person_id  = excluded.person_id,
		   client_ref = excluded.client_ref,
		   item       = excluded.item,
		   responded  = excluded.responded`,
		promo.ID,
		promo.PersonID,
		promo.ClientRef,
		promo.Item,
		responded,
	)
	return wrapWrite("promotions", err)
}
