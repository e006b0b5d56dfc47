package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/agrihub/agrihub-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RowError records one failed data row. Row numbering matches what the
// uploader sees in a spreadsheet: the first data row is row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarizes one import run. Every data row lands in exactly one of
// the successful or failed buckets.
type Result struct {
	UploadID       uuid.UUID  `json:"upload_id"`
	FileType       string     `json:"file_type"`
	TotalRows      int        `json:"total_rows"`
	SuccessfulRows int        `json:"successful_rows"`
	FailedRows     int        `json:"failed_rows"`
	Errors         []RowError `json:"errors,omitempty"`
}

// Actor identifies the admin running the import.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

type productCreator interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
}

type historyWriter interface {
	Insert(ctx context.Context, history *models.UploadHistory) error
}

type columnLister interface {
	List(ctx context.Context) ([]models.ProductColumn, error)
}

// Engine turns an uploaded spreadsheet into catalog rows. Failures are
// row-scoped: a bad row is reported and skipped while the rest of the file
// imports, and the run is recorded in upload history either way.
type Engine struct {
	products productCreator
	history  historyWriter
	columns  columnLister
	audit    audit.Recorder
	metrics  *metrics.ImportMetrics
	logger   *logger.Logger
	now      func() time.Time
}

// EngineParams bundles the dependencies required to build an import engine.
type EngineParams struct {
	Products productCreator
	History  historyWriter
	Columns  columnLister
	Audit    audit.Recorder
	Metrics  *metrics.ImportMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewEngine constructs the import engine with the provided dependencies.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.History == nil {
		return nil, fmt.Errorf("upload history repository is required")
	}
	if params.Columns == nil {
		return nil, fmt.Errorf("columns repository is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		products: params.Products,
		history:  params.History,
		columns:  params.Columns,
		audit:    params.Audit,
		metrics:  params.Metrics,
		logger:   params.Logger,
		now:      now,
	}, nil
}

// columnBinding describes where a spreadsheet column lands: either a
// canonical product field or a defined custom column.
type columnBinding struct {
	field      string
	customName string
	customType enums.ColumnType
}

// Import runs one upload end to end. A structurally unreadable file fails as
// a whole and imports nothing; once the header is resolved, failures are per
// row.
func (e *Engine) Import(ctx context.Context, actor Actor, filename string, r io.Reader) (*Result, error) {
	start := e.now()

	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "detect file type")
	}

	table, err := Parse(fileType, r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse upload")
	}

	bindings, err := e.resolveHeader(ctx, table.Headers)
	if err != nil {
		return nil, err
	}

	result := &Result{FileType: fileType}
	for i, row := range table.Rows {
		rowNum := i + 2
		result.TotalRows++

		product, err := buildProduct(actor, bindings, row)
		if err == nil {
			_, err = e.products.Create(ctx, product)
			if err != nil {
				err = fmt.Errorf("saving product: %w", err)
			}
		}
		if err != nil {
			result.FailedRows++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.SuccessfulRows++
	}

	history := &models.UploadHistory{
		UserID:         actor.UserID,
		Filename:       filepath.Base(filename),
		FileType:       fileType,
		TotalRows:      result.TotalRows,
		SuccessfulRows: result.SuccessfulRows,
		FailedRows:     result.FailedRows,
	}
	if len(result.Errors) > 0 {
		encoded, err := json.Marshal(result.Errors)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode error log")
		}
		history.ErrorLog = dbtypes.JSONRaw(encoded)
	}
	if err := e.history.Insert(ctx, history); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record upload history")
	}
	result.UploadID = history.ID

	e.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionProductBulkUpload,
		EntityType: "upload_history",
		EntityID:   &history.ID,
		NewValues: map[string]any{
			"filename":        history.Filename,
			"total_rows":      result.TotalRows,
			"successful_rows": result.SuccessfulRows,
			"failed_rows":     result.FailedRows,
		},
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	})

	e.metrics.ObserveRun(fileType, e.now().Sub(start))
	e.metrics.AddRows("imported", result.SuccessfulRows)
	e.metrics.AddRows("failed", result.FailedRows)

	if e.logger != nil {
		ctx = e.logger.WithFields(ctx, map[string]any{
			"filename":   history.Filename,
			"total":      result.TotalRows,
			"successful": result.SuccessfulRows,
			"failed":     result.FailedRows,
		})
		e.logger.Info(ctx, "bulk import finished")
	}
	return result, nil
}

// resolveHeader binds each spreadsheet column to a canonical field or a
// defined custom column. Columns matching neither are ignored. A file whose
// header binds neither mandatory field still imports; each of its rows fails
// the mandatory-field check individually and lands in the error log.
func (e *Engine) resolveHeader(ctx context.Context, headers []string) (map[int]columnBinding, error) {
	defined, err := e.columns.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list custom columns")
	}
	customTypes := make(map[string]enums.ColumnType, len(defined))
	for _, c := range defined {
		customTypes[c.Name] = c.Type
	}

	bindings := map[int]columnBinding{}
	seenFields := map[string]bool{}
	for idx, header := range headers {
		if field, ok := ResolveField(header); ok {
			if seenFields[field] {
				continue
			}
			seenFields[field] = true
			bindings[idx] = columnBinding{field: field}
			continue
		}
		normalized := NormalizeHeader(header)
		if columnType, ok := customTypes[normalized]; ok {
			bindings[idx] = columnBinding{customName: normalized, customType: columnType}
		}
	}

	return bindings, nil
}

func buildProduct(actor Actor, bindings map[int]columnBinding, row []string) (*models.Product, error) {
	product := &models.Product{
		IsActive:  true,
		CreatedBy: &actor.UserID,
		UpdatedBy: &actor.UserID,
	}
	custom := dbtypes.JSONMap{}

	for idx, binding := range bindings {
		var value string
		if idx < len(row) {
			value = strings.TrimSpace(row[idx])
		}
		if value == "" {
			continue
		}
		if binding.field != "" {
			if err := applyField(product, binding.field, value); err != nil {
				return nil, err
			}
			continue
		}
		coerced, err := coerceCustomValue(binding.customType, value)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", binding.customName, err)
		}
		custom[binding.customName] = coerced
	}

	if product.CompanyName == "" {
		return nil, fmt.Errorf("company_name is required")
	}
	if product.ProductName == "" {
		return nil, fmt.Errorf("product_name is required")
	}
	if len(custom) > 0 {
		product.CustomFields = custom
	}
	return product, nil
}

func applyField(product *models.Product, field, value string) error {
	if IsArrayField(field) {
		list := pq.StringArray(ParseList(value))
		switch field {
		case FieldAppliedSeasons:
			product.AppliedSeasons = list
		case FieldSuitableCrops:
			product.SuitableCrops = list
		case FieldPackSizes:
			product.PackSizes = list
		case FieldAvailableStates:
			product.AvailableStates = list
		}
		return nil
	}
	if IsBoolField(field) {
		flag := ParseFlag(value)
		switch field {
		case FieldOrganicCertified:
			product.OrganicCertified = flag
		case FieldISOCertified:
			product.ISOCertified = flag
		case FieldGovtApproved:
			product.GovtApproved = flag
		}
		return nil
	}

	switch field {
	case FieldCompanyName:
		product.CompanyName = value
	case FieldProductName:
		product.ProductName = value
	case FieldBrandName:
		product.BrandName = &value
	case FieldProductDescription:
		product.ProductDescription = &value
	case FieldProductType:
		product.ProductType = &value
	case FieldSubType:
		product.SubType = &value
	case FieldBenefits:
		product.Benefits = &value
	case FieldDosage:
		product.Dosage = &value
	case FieldApplicationMethod:
		product.ApplicationMethod = &value
	case FieldPriceRange:
		product.PriceRange = &value
	case FieldProductImageURL:
		product.ProductImageURL = &value
	case FieldSourceURL:
		product.SourceURL = &value
	case FieldNotes:
		product.Notes = &value
	default:
		return fmt.Errorf("unhandled field %q", field)
	}
	return nil
}

// coerceCustomValue converts a raw cell into the defined column's type so
// custom fields stay queryable as JSON.
func coerceCustomValue(columnType enums.ColumnType, value string) (any, error) {
	switch columnType {
	case enums.ColumnTypeNumber:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", value)
		}
		return parsed, nil
	case enums.ColumnTypeBoolean:
		return ParseFlag(value), nil
	case enums.ColumnTypeArray:
		return ParseList(value), nil
	default:
		return value, nil
	}
}
