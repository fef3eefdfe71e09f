package acl

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type keys joining inbound domain events to posting rules
const (
	EventTypeSalesInvoicePosted      = "sales.invoice.posted"
	EventTypeGoodsReceiptPosted      = "purchasing.goods_receipt.posted"
	EventTypeStockAdjustmentRecorded = "inventory.stock_adjustment.recorded"
)

// RuleSourceEvent is an inbound integration event that can feed rule-driven
// journaling: it exposes the source document for amount-key lookups and
// template expansion, plus the posting date and the reference used as
// idempotency key.
type RuleSourceEvent interface {
	shared.DomainEvent
	Source() SourceDocument
	PostingDate() time.Time
	Reference() string
	Description() string
}

// SalesInvoicePostedEvent signals that a sales invoice was posted in the
// sales module
type SalesInvoicePostedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
}

// NewSalesInvoicePostedEvent creates a new SalesInvoicePostedEvent
func NewSalesInvoicePostedEvent(invoiceID uuid.UUID, invoiceNumber, customerName string, invoiceDate time.Time, totalAmount, taxAmount decimal.Decimal) *SalesInvoicePostedEvent {
	return &SalesInvoicePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesInvoicePosted, "SalesInvoice", invoiceID),
		InvoiceID:       invoiceID,
		InvoiceNumber:   invoiceNumber,
		CustomerName:    customerName,
		InvoiceDate:     invoiceDate,
		TotalAmount:     totalAmount,
		TaxAmount:       taxAmount,
	}
}

// EventType returns the event type key
func (e *SalesInvoicePostedEvent) EventType() string {
	return EventTypeSalesInvoicePosted
}

// Source returns the event's fields as a source document
func (e *SalesInvoicePostedEvent) Source() SourceDocument {
	return SourceDocument{
		"invoice_number": e.InvoiceNumber,
		"customer_name":  e.CustomerName,
		"total_amount":   e.TotalAmount,
		"tax_amount":     e.TaxAmount,
		"net_amount":     e.TotalAmount.Sub(e.TaxAmount),
	}
}

// PostingDate returns the date the resulting journal entry is posted under
func (e *SalesInvoicePostedEvent) PostingDate() time.Time {
	return e.InvoiceDate
}

// Reference returns the idempotency reference for the resulting entry
func (e *SalesInvoicePostedEvent) Reference() string {
	return e.InvoiceNumber
}

// Description returns the journal description for the resulting entry
func (e *SalesInvoicePostedEvent) Description() string {
	return "Invoice " + e.InvoiceNumber
}

// GoodsReceiptPostedEvent signals that a goods receipt was posted in the
// purchasing module
type GoodsReceiptPostedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	SupplierName  string          `json:"supplier_name"`
	ReceiptDate   time.Time       `json:"receipt_date"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// NewGoodsReceiptPostedEvent creates a new GoodsReceiptPostedEvent
func NewGoodsReceiptPostedEvent(receiptID uuid.UUID, receiptNumber, supplierName string, receiptDate time.Time, totalCost decimal.Decimal) *GoodsReceiptPostedEvent {
	return &GoodsReceiptPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptPosted, "GoodsReceipt", receiptID),
		ReceiptID:       receiptID,
		ReceiptNumber:   receiptNumber,
		SupplierName:    supplierName,
		ReceiptDate:     receiptDate,
		TotalCost:       totalCost,
	}
}

// EventType returns the event type key
func (e *GoodsReceiptPostedEvent) EventType() string {
	return EventTypeGoodsReceiptPosted
}

// Source returns the event's fields as a source document
func (e *GoodsReceiptPostedEvent) Source() SourceDocument {
	return SourceDocument{
		"receipt_number": e.ReceiptNumber,
		"supplier_name":  e.SupplierName,
		"total_cost":     e.TotalCost,
	}
}

// PostingDate returns the date the resulting journal entry is posted under
func (e *GoodsReceiptPostedEvent) PostingDate() time.Time {
	return e.ReceiptDate
}

// Reference returns the idempotency reference for the resulting entry
func (e *GoodsReceiptPostedEvent) Reference() string {
	return e.ReceiptNumber
}

// Description returns the journal description for the resulting entry
func (e *GoodsReceiptPostedEvent) Description() string {
	return "Goods receipt " + e.ReceiptNumber
}

// StockAdjustmentRecordedEvent signals that a stock adjustment was recorded
// in the inventory module
type StockAdjustmentRecordedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID     uuid.UUID       `json:"adjustment_id"`
	AdjustmentNumber string          `json:"adjustment_number"`
	Reason           string          `json:"reason"`
	AdjustmentDate   time.Time       `json:"adjustment_date"`
	ValueChange      decimal.Decimal `json:"value_change"`
}

// NewStockAdjustmentRecordedEvent creates a new StockAdjustmentRecordedEvent
func NewStockAdjustmentRecordedEvent(adjustmentID uuid.UUID, adjustmentNumber, reason string, adjustmentDate time.Time, valueChange decimal.Decimal) *StockAdjustmentRecordedEvent {
	return &StockAdjustmentRecordedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockAdjustmentRecorded, "StockAdjustment", adjustmentID),
		AdjustmentID:     adjustmentID,
		AdjustmentNumber: adjustmentNumber,
		Reason:           reason,
		AdjustmentDate:   adjustmentDate,
		ValueChange:      valueChange,
	}
}

// EventType returns the event type key
func (e *StockAdjustmentRecordedEvent) EventType() string {
	return EventTypeStockAdjustmentRecorded
}

// Source returns the event's fields as a source document
func (e *StockAdjustmentRecordedEvent) Source() SourceDocument {
	return SourceDocument{
		"adjustment_number": e.AdjustmentNumber,
		"reason":            e.Reason,
		"value_change":      e.ValueChange,
	}
}

// PostingDate returns the date the resulting journal entry is posted under
func (e *StockAdjustmentRecordedEvent) PostingDate() time.Time {
	return e.AdjustmentDate
}

// Reference returns the idempotency reference for the resulting entry
func (e *StockAdjustmentRecordedEvent) Reference() string {
	return e.AdjustmentNumber
}

// Description returns the journal description for the resulting entry
func (e *StockAdjustmentRecordedEvent) Description() string {
	return "Stock adjustment " + e.AdjustmentNumber
}

// Interface guards
var (
	_ RuleSourceEvent = (*SalesInvoicePostedEvent)(nil)
	_ RuleSourceEvent = (*GoodsReceiptPostedEvent)(nil)
	_ RuleSourceEvent = (*StockAdjustmentRecordedEvent)(nil)
)
