// Package trust maintains the reputation signal attached to phone contacts:
// verification status and the monotonically increasing report count.
package trust

import (
	"context"
	"fmt"

	"daleel-service/internal/model"
	"daleel-service/internal/store"
	"daleel-service/prometheus"

	"go.uber.org/zap"
)

// Ledger applies verification and report workflows against the contact store.
type Ledger struct {
	contacts store.PhoneContactStore
	log      *zap.Logger
}

// NewLedger creates a ledger over the given contact store.
func NewLedger(contacts store.PhoneContactStore, log *zap.Logger) *Ledger {
	return &Ledger{contacts: contacts, log: log}
}

// Verify marks a contact verified with the given method and stamps the
// verification date. Verifying an already verified contact overwrites the
// method and date; it is not an error.
func (l *Ledger) Verify(ctx context.Context, contactID, method string) (*model.PhoneContact, error) {
	if contactID == "" || method == "" {
		return nil, fmt.Errorf("%w: contact id and method are required", store.ErrValidation)
	}

	contact, err := l.contacts.VerifyContact(ctx, contactID, method)
	if err != nil {
		return nil, err
	}

	l.log.Info("contact verified",
		zap.String("contact_id", contactID),
		zap.String("method", method))
	return contact, nil
}

// Report files a complaint against a contact. The report row and the
// contact's report count move together in one atomic store operation; the
// count can never drift from the number of report rows.
func (l *Ledger) Report(ctx context.Context, contactID, reporterID, reportType, reason string) (*model.ContactReport, error) {
	if contactID == "" || reporterID == "" || reportType == "" {
		return nil, fmt.Errorf("%w: contact id, reporter and report type are required", store.ErrValidation)
	}

	report := &model.ContactReport{
		PhoneContactID:   contactID,
		ReportedByUserID: reporterID,
		ReportType:       reportType,
		ReportReason:     reason,
	}
	if err := l.contacts.ReportContact(ctx, report); err != nil {
		return nil, err
	}

	prometheus.RecordContactReport(reportType)
	l.log.Info("contact reported",
		zap.String("contact_id", contactID),
		zap.String("report_type", reportType))
	return report, nil
}

// Reports returns all complaints filed against a contact, newest first.
func (l *Ledger) Reports(ctx context.Context, contactID string) ([]model.ContactReport, error) {
	return l.contacts.ReportsByContact(ctx, contactID)
}
