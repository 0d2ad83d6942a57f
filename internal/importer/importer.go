package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"clubsignup/internal/domain"
	"clubsignup/internal/logging"
	"go.uber.org/zap"
)

// SignupRunner processes or validates one signup.
type SignupRunner interface {
	ProcessClubSignup(ctx context.Context, req domain.SignupRequest) (*domain.SignupResult, error)
	Validate(req domain.SignupRequest) error
}

// CSVImporter reads signup rows from a CSV export and runs each one through
// the signup sequence.
type CSVImporter struct {
	reader *csv.Reader
	runner SignupRunner
	dryRun bool
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, runner SignupRunner, dryRun bool, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader: csvr,
		runner: runner,
		dryRun: dryRun,
		logger: logger,
	}
}

// RowResult is the outcome of one CSV row. Row is the 1-based line the
// record starts on.
type RowResult struct {
	Row          int
	Email        string
	CustomerID   string
	MembershipID string
	Err          error
}

// Report summarizes a run.
type Report struct {
	Succeeded int
	Failed    int
	Rows      []RowResult
}

// Run processes every row in order. A failed row is recorded and the run
// continues; only unreadable input stops it.
func (i *CSVImporter) Run(ctx context.Context) (Report, error) {
	var report Report

	headers, err := i.reader.Read()
	if err != nil {
		return report, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["email"]; !ok {
		return report, errors.New("missing email column")
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)
		if blank(record) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := i.process(ctx, line, record, index)
		if res.Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
		report.Rows = append(report.Rows, res)
	}

	i.logger.Info("import finished",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Bool("dryRun", i.dryRun))
	return report, nil
}

func (i *CSVImporter) process(ctx context.Context, line int, record []string, index map[string]int) RowResult {
	res := RowResult{Row: line, Email: pick(record, index, "email")}
	log := i.logger.With(zap.Int("row", line), logging.Email("email", res.Email))

	req, err := parseRow(record, index)
	if err == nil {
		if i.dryRun {
			err = i.runner.Validate(req)
		} else {
			var out *domain.SignupResult
			out, err = i.runner.ProcessClubSignup(ctx, req)
			if err == nil {
				res.CustomerID = out.CustomerID
				res.MembershipID = out.MembershipID
			}
		}
	}
	if err != nil {
		res.Err = err
		fields := []zap.Field{zap.String("kind", string(domain.KindOf(err))), zap.Error(err)}
		if e, ok := domain.AsError(err); ok && e.Step != "" {
			fields = append(fields, zap.String("step", string(e.Step)))
		}
		log.Warn("row failed", fields...)
		return res
	}

	log.Info("row imported",
		zap.String("customerId", res.CustomerID),
		zap.String("membershipId", res.MembershipID))
	return res
}

func parseRow(record []string, index map[string]int) (domain.SignupRequest, error) {
	req := domain.SignupRequest{
		CustomerInfo: domain.CustomerInfo{
			FirstName: pick(record, index, "firstName"),
			LastName:  pick(record, index, "lastName"),
			Email:     pick(record, index, "email"),
			Phone:     pick(record, index, "phone"),
			BirthDate: pick(record, index, "birthDate"),
		},
		ClubID:              pick(record, index, "clubId"),
		OrderDeliveryMethod: pick(record, index, "orderDeliveryMethod"),
		BillingAddress:      pickAddress(record, index, "billing."),
		ShippingAddress:     pickAddress(record, index, "shipping."),
	}

	if raw := pick(record, index, "sameAsBilling"); raw != "" {
		same, err := strconv.ParseBool(raw)
		if err != nil {
			return req, domain.NewValidationError(nil, []string{"sameAsBilling"}).WithStep(domain.StepValidating)
		}
		req.SameAsBilling = same
	}
	return req, nil
}

// pickAddress returns nil when every column under prefix is empty.
func pickAddress(record []string, index map[string]int, prefix string) *domain.AddressInput {
	addr := domain.AddressInput{
		Address:     pick(record, index, prefix+"address"),
		Address2:    pick(record, index, prefix+"address2"),
		City:        pick(record, index, prefix+"city"),
		StateCode:   pick(record, index, prefix+"stateCode"),
		ZipCode:     pick(record, index, prefix+"zipCode"),
		CountryCode: pick(record, index, prefix+"countryCode"),
	}
	if addr == (domain.AddressInput{}) {
		return nil
	}
	return &addr
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
