package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (CALLORDER_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) callsCol() *firestore.CollectionRef {
	return s.client.Collection("calls")
}

func (s *Store) callDoc(orderID string) *firestore.DocumentRef {
	return s.callsCol().Doc(orderID)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type turnDoc struct {
	Role       string    `firestore:"role"`
	Text       string    `firestore:"text"`
	OccurredAt time.Time `firestore:"occurred_at"`
}

type itemDoc struct {
	Label     string `firestore:"label"`
	Quantity  int    `firestore:"quantity"`
	UnitPrice *int64 `firestore:"unit_price_cents"`
}

type callDoc struct {
	CallID        string    `firestore:"call_id"`
	StartedAt     time.Time `firestore:"started_at"`
	EndedAt       time.Time `firestore:"ended_at"`
	Turns         []turnDoc `firestore:"turns"`
	Items         []itemDoc `firestore:"items"`
	DeliveryMode  string    `firestore:"delivery_mode"`
	ClientName    string    `firestore:"client_name"`
	ClientPhone   string    `firestore:"client_phone"`
	ClientAddress string    `firestore:"client_address"`
	PaymentMethod string    `firestore:"payment_method"`
	Subtotal      *int64    `firestore:"subtotal_cents"`
	DiscountNote  string    `firestore:"discount_note"`
	Total         *int64    `firestore:"total_cents"`
	LowConfidence bool      `firestore:"low_confidence"`
	Warnings      []string  `firestore:"warnings"`
}

func cents(m *domain.Money) *int64 {
	if m == nil {
		return nil
	}
	v := int64(*m)
	return &v
}

func money(v *int64) *domain.Money {
	if v == nil {
		return nil
	}
	m := domain.Money(*v)
	return &m
}

func toDoc(rec *domain.CallRecord) callDoc {
	o := rec.Order
	doc := callDoc{
		CallID:        string(rec.CallID),
		StartedAt:     rec.StartedAt,
		EndedAt:       rec.EndedAt,
		DeliveryMode:  string(o.DeliveryMode),
		ClientName:    o.ClientName,
		ClientPhone:   o.ClientPhone,
		ClientAddress: o.ClientAddress,
		PaymentMethod: string(o.PaymentMethod),
		Subtotal:      cents(o.Subtotal),
		DiscountNote:  o.DiscountNote,
		Total:         cents(o.Total),
		LowConfidence: o.LowConfidence,
		Warnings:      o.Warnings,
	}
	for _, t := range rec.Turns {
		doc.Turns = append(doc.Turns, turnDoc{Role: string(t.Role), Text: t.Text, OccurredAt: t.OccurredAt})
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, itemDoc{Label: it.Label, Quantity: it.Quantity, UnitPrice: cents(it.UnitPrice)})
	}
	return doc
}

func fromDoc(orderID string, doc callDoc) *domain.CallRecord {
	rec := &domain.CallRecord{
		CallID:    domain.CallID(doc.CallID),
		OrderID:   orderID,
		StartedAt: doc.StartedAt,
		EndedAt:   doc.EndedAt,
		Order: domain.ExtractedOrder{
			Items:         []domain.OrderItem{},
			DeliveryMode:  domain.DeliveryMode(doc.DeliveryMode),
			ClientName:    doc.ClientName,
			ClientPhone:   doc.ClientPhone,
			ClientAddress: doc.ClientAddress,
			PaymentMethod: domain.PaymentMethod(doc.PaymentMethod),
			Subtotal:      money(doc.Subtotal),
			DiscountNote:  doc.DiscountNote,
			Total:         money(doc.Total),
			LowConfidence: doc.LowConfidence,
			Warnings:      doc.Warnings,
		},
	}
	for _, t := range doc.Turns {
		rec.Turns = append(rec.Turns, domain.Turn{Role: domain.Role(t.Role), Text: t.Text, OccurredAt: t.OccurredAt})
	}
	for _, it := range doc.Items {
		rec.Order.Items = append(rec.Order.Items, domain.OrderItem{Label: it.Label, Quantity: it.Quantity, UnitPrice: money(it.UnitPrice)})
	}
	return rec
}

// ─────────────────────────────────────────
// RecordSink implementation
// ─────────────────────────────────────────

// SaveCall stores the record under its order id. Records are write-once.
func (s *Store) SaveCall(ctx context.Context, rec *domain.CallRecord) error {
	if rec.OrderID == "" {
		return fmt.Errorf("firestore SaveCall: record for call %s has no order id", rec.CallID)
	}

	_, err := s.callDoc(rec.OrderID).Create(ctx, toDoc(rec))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("firestore SaveCall: order %s already stored", rec.OrderID)
		}
		return fmt.Errorf("firestore SaveCall: %w", err)
	}
	return nil
}

// GetCall loads one record by order id.
func (s *Store) GetCall(ctx context.Context, orderID string) (*domain.CallRecord, error) {
	snap, err := s.callDoc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetCall: %w", err)
	}

	var doc callDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetCall decode: %w", err)
	}
	return fromDoc(orderID, doc), nil
}

// ListCalls returns records newest first.
func (s *Store) ListCalls(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	q := s.callsCol().OrderBy("ended_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.CallRecord
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListCalls: %w", err)
		}

		var doc callDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode callDoc: %w", err)
		}
		out = append(out, fromDoc(snap.Ref.ID, doc))
	}
	return out, nil
}
