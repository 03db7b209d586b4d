package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"inv/internal/core/domain"
	"inv/pkg/attrs"
)

// ImportService turns a tabular file into assets: columns are attribute
// names, one asset per row. The identity columns (type, make, model,
// serial) and the optional "directory" column are lifted out of the
// attribute set; everything else becomes attributes.
type ImportService struct {
	inventory *InventoryService
}

// NewImportService creates a new import service.
func NewImportService(inventory *InventoryService) *ImportService {
	return &ImportService{inventory: inventory}
}

// ImportRequest describes a bulk import run.
type ImportRequest struct {
	Reader    io.Reader
	Directory string         // default container for rows without one
	Defaults  map[string]any // attributes applied to every row; row values win
	Message   string
	DryRun    bool
}

// ImportResponse reports the created assets per row.
type ImportResponse struct {
	Created []*domain.Asset
	Records []string
}

// Execute parses the whole table first, so a malformed file aborts
// before any asset is created, then issues one create per row.
func (s *ImportService) Execute(ctx context.Context, req ImportRequest) (*ImportResponse, error) {
	rows, err := parseTable(req.Reader)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows in table")
	}

	// Validate identity fields up front; creation below must only be
	// able to fail on genuine conflicts.
	creates := make([]CreateRequest, 0, len(rows))
	for i, row := range rows {
		create, err := s.rowToCreate(row, req)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		creates = append(creates, create)
	}

	resp := &ImportResponse{}
	for i, create := range creates {
		created, err := s.inventory.Create(ctx, create)
		if err != nil {
			return resp, fmt.Errorf("row %d: %w", i+1, err)
		}
		resp.Created = append(resp.Created, created.Assets...)
		resp.Records = append(resp.Records, created.Record)
	}
	return resp, nil
}

func (s *ImportService) rowToCreate(row map[string]string, req ImportRequest) (CreateRequest, error) {
	create := CreateRequest{
		Container: req.Directory,
		Message:   req.Message,
		DryRun:    req.DryRun,
	}

	attributes := make(map[string]any)
	for k, v := range req.Defaults {
		attributes[k] = v
	}
	for key, value := range row {
		switch key {
		case "type":
			create.Type = value
		case "make":
			create.Make = value
		case "model":
			create.Model = value
		case "serial":
			if value != "" {
				create.Serials = []string{value}
			}
		case "directory":
			if value != "" {
				create.Container = value
			}
		default:
			if value != "" {
				attributes[key] = attrs.ParseScalar(value)
			}
		}
	}
	create.Attributes = attributes

	if create.Type == "" || create.Make == "" || create.Model == "" {
		return CreateRequest{}, fmt.Errorf("%w: type, make and model columns are required", domain.ErrMalformedIdentity)
	}
	if create.Container == "" {
		return CreateRequest{}, fmt.Errorf("no target directory: give a directory column or a default")
	}
	return create, nil
}

// parseTable reads a tab-separated table with a header row into one map
// per data row.
func parseTable(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header row in table")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
