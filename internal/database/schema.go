package database

import (
	"fmt"

	"go.uber.org/zap"

	"gentrack/internal/model"
)

// tableSchema declares the expected column set of one table as a map of
// database column name to struct field name.
type tableSchema struct {
	model   any
	name    string
	columns map[string]string
}

var schemaTables = []tableSchema{
	{
		model: &model.Account{},
		name:  "accounts",
		columns: map[string]string{
			"id":            "ID",
			"name":          "Name",
			"email":         "Email",
			"password_hash": "PasswordHash",
			"role":          "Role",
			"status":        "Status",
			"phone":         "Phone",
			"address":       "Address",
			"hire_date":     "HireDate",
			"last_login":    "LastLogin",
			"first_login":   "FirstLogin",
			"permissions":   "Permissions",
			"created_at":    "CreatedAt",
			"updated_at":    "UpdatedAt",
		},
	},
	{
		model: &model.Generator{},
		name:  "generators",
		columns: map[string]string{
			"id":                "ID",
			"model":             "Model",
			"type":              "Type",
			"serial_number":     "SerialNumber",
			"location":          "Location",
			"acquisition_date":  "AcquisitionDate",
			"warranty_expiry":   "WarrantyExpiry",
			"cost":              "Cost",
			"total_hours_run":   "TotalHoursRun",
			"last_service_date": "LastServiceDate",
			"next_service_date": "NextServiceDate",
			"status":            "Status",
			"client_id":         "ClientID",
			"assigned_tech_id":  "AssignedTechID",
			"notes":             "Notes",
			"created_at":        "CreatedAt",
			"updated_at":        "UpdatedAt",
		},
	},
	{
		model: &model.ServiceRecord{},
		name:  "service_records",
		columns: map[string]string{
			"id":            "ID",
			"generator_id":  "GeneratorID",
			"service_date":  "ServiceDate",
			"service_type":  "ServiceType",
			"technician_id": "TechnicianID",
			"status":        "Status",
			"duration":      "Duration",
			"service_cost":  "ServiceCost",
			"work_order":    "WorkOrder",
			"notes":         "Notes",
			"created_at":    "CreatedAt",
			"updated_at":    "UpdatedAt",
		},
	},
	{
		model: &model.ServicePart{},
		name:  "service_parts",
		columns: map[string]string{
			"id":                "ID",
			"service_record_id": "ServiceRecordID",
			"part_id":           "PartID",
			"quantity":          "Quantity",
			"position":          "Position",
		},
	},
	{
		model: &model.Part{},
		name:  "parts",
		columns: map[string]string{
			"id":                "ID",
			"name":              "Name",
			"part_number":       "PartNumber",
			"quantity_in_stock": "QuantityInStock",
			"cost_per_unit":     "CostPerUnit",
			"category":          "Category",
			"min_stock_level":   "MinStockLevel",
			"status":            "Status",
			"created_at":        "CreatedAt",
			"updated_at":        "UpdatedAt",
		},
	},
	{
		model: &model.AuditEntry{},
		name:  "audit_entries",
		columns: map[string]string{
			"id":             "ID",
			"user_id":        "UserID",
			"action_type":    "ActionType",
			"action_details": "ActionDetails",
			"timestamp":      "Timestamp",
		},
	},
}

// EnsureSchema creates missing tables, indexes and foreign-key relations,
// then reconciles each live table against its expected column set, appending
// any missing column with its declared default. Migration is strictly
// additive: columns are never dropped or renamed. Safe to call on every
// startup.
func (s *Store) EnsureSchema() error {
	if err := s.db.AutoMigrate(
		&model.Account{},
		&model.Generator{},
		&model.Part{},
		&model.ServiceRecord{},
		&model.ServicePart{},
		&model.AuditEntry{},
	); err != nil {
		return fmt.Errorf("schema migration: %w", err)
	}

	migrator := s.db.Migrator()
	for _, table := range schemaTables {
		cols, err := migrator.ColumnTypes(table.model)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", table.name, err)
		}
		if len(cols) == 0 {
			return fmt.Errorf("inspect %s: introspection reported no columns", table.name)
		}

		live := make(map[string]bool, len(cols))
		for _, c := range cols {
			live[c.Name()] = true
		}

		for column, field := range table.columns {
			if live[column] {
				continue
			}
			if err := migrator.AddColumn(table.model, field); err != nil {
				return fmt.Errorf("add column %s.%s: %w", table.name, column, err)
			}
			s.log.Info("schema: appended missing column",
				zap.String("table", table.name),
				zap.String("column", column))
		}
	}

	return nil
}
