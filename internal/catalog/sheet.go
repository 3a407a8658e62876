package catalog

import (
	"encoding/json"
	"fmt"

	"supplier-routing-service/internal/models"
	"supplier-routing-service/pkg/errors"
)

// SheetRow is one row of the hosted supplier sheet. The sheet is flat: a
// supplier offering several services spans several rows keyed by
// supplier_name, and the structured columns hold JSON-encoded arrays.
type SheetRow struct {
	SupplierName        string `json:"supplier_name"`
	ServiceType         string `json:"service_type"`
	IsActive            string `json:"is_active,omitempty"`
	AmountLimits        string `json:"amount_limits"`
	ServiceCharges      string `json:"service_charges"`
	AdditionalQuestions string `json:"additional_questions"`
}

// EncodeRows flattens suppliers into sheet rows, one per service
func EncodeRows(suppliers []models.Supplier) ([]SheetRow, error) {
	var rows []SheetRow

	for _, supplier := range suppliers {
		for _, service := range supplier.Services {
			limits, err := json.Marshal(service.AmountLimits)
			if err != nil {
				return nil, errors.InternalError(errors.CodeUnexpectedError, "sheet row encoding", err)
			}
			charges, err := json.Marshal(service.ServiceCharges)
			if err != nil {
				return nil, errors.InternalError(errors.CodeUnexpectedError, "sheet row encoding", err)
			}
			questions, err := json.Marshal(service.Qualifications)
			if err != nil {
				return nil, errors.InternalError(errors.CodeUnexpectedError, "sheet row encoding", err)
			}

			rows = append(rows, SheetRow{
				SupplierName:        supplier.Name,
				ServiceType:         service.ServiceType,
				IsActive:            fmt.Sprintf("%t", supplier.IsActive),
				AmountLimits:        string(limits),
				ServiceCharges:      string(charges),
				AdditionalQuestions: string(questions),
			})
		}
	}

	return rows, nil
}

// DecodeRows rebuilds suppliers from sheet rows. Rows sharing a
// supplier_name are merged into one supplier, preserving row order as
// service declaration order. Rows with unusable JSON columns are skipped
// and reported; the rest of the sheet still loads.
func DecodeRows(rows []SheetRow) ([]models.Supplier, []*errors.RouterError) {
	var (
		suppliers []models.Supplier
		skipped   []*errors.RouterError
		index     = make(map[string]int)
	)

	for _, row := range rows {
		if row.SupplierName == "" {
			skipped = append(skipped, errors.CatalogEntryError(errors.CodeMalformedSupplier,
				"", row.ServiceType, "supplier_name", "missing supplier name"))
			continue
		}

		service, err := decodeService(row)
		if err != nil {
			skipped = append(skipped, errors.CatalogEntryError(errors.CodeMalformedSupplier,
				row.SupplierName, row.ServiceType, "sheet_row", err.Error()))
			continue
		}

		i, seen := index[row.SupplierName]
		if !seen {
			suppliers = append(suppliers, models.Supplier{
				Name:     row.SupplierName,
				IsActive: row.IsActive != "false",
			})
			i = len(suppliers) - 1
			index[row.SupplierName] = i
		}

		suppliers[i].Services = append(suppliers[i].Services, service)
		if row.IsActive == "false" {
			suppliers[i].IsActive = false
		}
	}

	return suppliers, skipped
}

func decodeService(row SheetRow) (models.Service, error) {
	service := models.Service{ServiceType: row.ServiceType}

	if row.ServiceType == "" {
		return service, fmt.Errorf("missing service type")
	}

	if row.AmountLimits != "" {
		if err := json.Unmarshal([]byte(row.AmountLimits), &service.AmountLimits); err != nil {
			return service, fmt.Errorf("invalid amount_limits column: %w", err)
		}
	}

	if row.ServiceCharges != "" {
		if err := json.Unmarshal([]byte(row.ServiceCharges), &service.ServiceCharges); err != nil {
			return service, fmt.Errorf("invalid service_charges column: %w", err)
		}
	}

	if row.AdditionalQuestions != "" {
		if err := json.Unmarshal([]byte(row.AdditionalQuestions), &service.Qualifications); err != nil {
			return service, fmt.Errorf("invalid additional_questions column: %w", err)
		}
	}

	return service, nil
}
