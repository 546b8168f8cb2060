package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'accountant_role') THEN
			CREATE TYPE accountant_role AS ENUM ('ADMIN', 'ACCOUNTANT');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'advance_status') THEN
			CREATE TYPE advance_status AS ENUM ('PENDING', 'DEDUCTED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'note_status') THEN
			CREATE TYPE note_status AS ENUM ('PENDING', 'CONVERTED', 'REJECTED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'fund_source') THEN
			CREATE TYPE fund_source AS ENUM ('OFFICE_FUND', 'PM_ADVANCE');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'expense_category') THEN
			CREATE TYPE expense_category AS ENUM ('TECHNICIAN_WORK', 'STAFF_WORK', 'UTILITIES', 'OTHER');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'invoice_type') THEN
			CREATE TYPE invoice_type AS ENUM ('CLAIM', 'RENT', 'OTHER');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payroll_status') THEN
			CREATE TYPE payroll_status AS ENUM ('PENDING', 'PAID');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS accountants (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		role accountant_role NOT NULL DEFAULT 'ACCOUNTANT',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_accountants_phone ON accountants (phone);`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS units (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		label VARCHAR(255) NOT NULL,
		building_name VARCHAR(255) NOT NULL,
		project_id UUID REFERENCES projects(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS staff (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		project_id UUID REFERENCES projects(id),
		salary NUMERIC(18,2) NOT NULL DEFAULT 0,
		pending_advance_total NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_staff_project_id ON staff (project_id) WHERE project_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS staff_advances (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		staff_id UUID NOT NULL REFERENCES staff(id),
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		status advance_status NOT NULL DEFAULT 'PENDING',
		note TEXT,
		deducted_from_payroll_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_staff_advances_staff_id ON staff_advances (staff_id);`,
	`CREATE INDEX IF NOT EXISTS idx_staff_advances_status ON staff_advances (status);`,
	`CREATE TABLE IF NOT EXISTS pm_advances (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		staff_id UUID NOT NULL REFERENCES staff(id),
		project_id UUID REFERENCES projects(id),
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		remaining_amount NUMERIC(18,2) NOT NULL CHECK (remaining_amount >= 0),
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_pm_advances_staff_id ON pm_advances (staff_id);`,
	`CREATE TABLE IF NOT EXISTS accounting_notes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		unit_id UUID NOT NULL REFERENCES units(id),
		project_id UUID REFERENCES projects(id),
		description TEXT NOT NULL,
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		status note_status NOT NULL DEFAULT 'PENDING',
		category expense_category NOT NULL DEFAULT 'OTHER',
		source_type fund_source NOT NULL DEFAULT 'OFFICE_FUND',
		pm_advance_id UUID REFERENCES pm_advances(id),
		converted_to_expense_id UUID,
		converted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_accounting_notes_unit_id ON accounting_notes (unit_id);`,
	`CREATE INDEX IF NOT EXISTS idx_accounting_notes_status ON accounting_notes (status);`,
	`CREATE SEQUENCE IF NOT EXISTS claim_invoice_seq START 1;`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		invoice_number VARCHAR(64) NOT NULL,
		unit_id UUID REFERENCES units(id),
		type invoice_type NOT NULL DEFAULT 'CLAIM',
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		total_paid NUMERIC(18,2) NOT NULL DEFAULT 0,
		remaining_balance NUMERIC(18,2) NOT NULL,
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (total_paid + remaining_balance = amount)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_invoices_number ON invoices (invoice_number);`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_unit_id ON invoices (unit_id) WHERE unit_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		invoice_id UUID NOT NULL REFERENCES invoices(id),
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_invoice_id ON payments (invoice_id);`,
	`CREATE TABLE IF NOT EXISTS operational_expenses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		unit_id UUID NOT NULL REFERENCES units(id),
		project_id UUID REFERENCES projects(id),
		description TEXT NOT NULL,
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		category expense_category NOT NULL DEFAULT 'OTHER',
		source_type fund_source NOT NULL DEFAULT 'OFFICE_FUND',
		pm_advance_id UUID REFERENCES pm_advances(id),
		note_id UUID REFERENCES accounting_notes(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_operational_expenses_unit_id ON operational_expenses (unit_id);`,
	`CREATE INDEX IF NOT EXISTS idx_operational_expenses_category ON operational_expenses (category);`,
	`CREATE TABLE IF NOT EXISTS payrolls (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		month VARCHAR(7) NOT NULL,
		total_gross NUMERIC(18,2) NOT NULL,
		total_advances NUMERIC(18,2) NOT NULL,
		total_net NUMERIC(18,2) NOT NULL,
		status payroll_status NOT NULL DEFAULT 'PENDING',
		paid_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_payrolls_month ON payrolls (month);`,
	`CREATE TABLE IF NOT EXISTS payroll_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		payroll_id UUID NOT NULL REFERENCES payrolls(id) ON DELETE CASCADE,
		staff_id UUID NOT NULL REFERENCES staff(id),
		staff_name VARCHAR(255) NOT NULL,
		salary NUMERIC(18,2) NOT NULL,
		advances NUMERIC(18,2) NOT NULL,
		net NUMERIC(18,2) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_payroll_items_payroll_staff ON payroll_items (payroll_id, staff_id);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_staff_advances_payroll') THEN
			ALTER TABLE staff_advances ADD CONSTRAINT fk_staff_advances_payroll
				FOREIGN KEY (deducted_from_payroll_id) REFERENCES payrolls(id);
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
