// Package export moves the business records in and out of the application as
// a JSON bundle or an Excel workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

// ErrInvalidBundle is returned when an import bundle carries records that
// cannot be stored as given.
var ErrInvalidBundle = errors.New("invalid import bundle")

// Bundle is the full data export. On import a nil collection is left untouched.
type Bundle struct {
	Inventory    *[]models.InventoryItem `json:"inventory,omitempty"`
	Suppliers    *[]models.Supplier      `json:"suppliers,omitempty"`
	Transactions *[]models.Transaction   `json:"transactions,omitempty"`
	Goals        *[]models.Goal          `json:"goals,omitempty"`
	ExportDate   string                  `json:"exportDate,omitempty"`
}

// ImportResult reports how many records each replaced collection holds after
// the import, as read back from the store.
type ImportResult struct {
	Inventory    *int `json:"inventory,omitempty"`
	Suppliers    *int `json:"suppliers,omitempty"`
	Transactions *int `json:"transactions,omitempty"`
	Goals        *int `json:"goals,omitempty"`
}

// Store is the persistence needed for export and import.
type Store interface {
	repository.InventoryRepository
	repository.SupplierRepository
	repository.TransactionRepository
	repository.GoalRepository
}

// Service exports and imports business records.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the export service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Export collects every collection into a bundle.
func (s *Service) Export(ctx context.Context) (Bundle, error) {
	inventory, err := s.store.ListInventory(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("export inventory: %w", err)
	}
	suppliers, err := s.store.ListSuppliers(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("export suppliers: %w", err)
	}
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("export transactions: %w", err)
	}
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("export goals: %w", err)
	}

	return Bundle{
		Inventory:    nonNil(inventory),
		Suppliers:    nonNil(suppliers),
		Transactions: nonNil(transactions),
		Goals:        nonNil(goals),
		ExportDate:   s.now().UTC().Format(time.RFC3339),
	}, nil
}

// Import replaces every collection present in the bundle. The whole bundle is
// checked first; a bundle with a missing or repeated id changes nothing.
func (s *Service) Import(ctx context.Context, bundle Bundle) (ImportResult, error) {
	if err := bundle.Validate(); err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	if bundle.Inventory != nil {
		if err := s.store.ReplaceInventory(ctx, *bundle.Inventory); err != nil {
			return result, fmt.Errorf("import inventory: %w", err)
		}
		stored, err := s.store.ListInventory(ctx)
		if err != nil {
			return result, fmt.Errorf("count inventory: %w", err)
		}
		result.Inventory = count(stored)
	}
	if bundle.Suppliers != nil {
		if err := s.store.ReplaceSuppliers(ctx, *bundle.Suppliers); err != nil {
			return result, fmt.Errorf("import suppliers: %w", err)
		}
		stored, err := s.store.ListSuppliers(ctx)
		if err != nil {
			return result, fmt.Errorf("count suppliers: %w", err)
		}
		result.Suppliers = count(stored)
	}
	if bundle.Transactions != nil {
		if err := s.store.ReplaceTransactions(ctx, *bundle.Transactions); err != nil {
			return result, fmt.Errorf("import transactions: %w", err)
		}
		stored, err := s.store.ListTransactions(ctx)
		if err != nil {
			return result, fmt.Errorf("count transactions: %w", err)
		}
		result.Transactions = count(stored)
	}
	if bundle.Goals != nil {
		if err := s.store.ReplaceGoals(ctx, *bundle.Goals); err != nil {
			return result, fmt.Errorf("import goals: %w", err)
		}
		stored, err := s.store.ListGoals(ctx)
		if err != nil {
			return result, fmt.Errorf("count goals: %w", err)
		}
		result.Goals = count(stored)
	}

	s.logger.Info("data imported", zap.Any("result", result))
	return result, nil
}

// Validate checks that every record in the bundle has an id unique within its
// collection.
func (b Bundle) Validate() error {
	if b.Inventory != nil {
		if err := uniqueIDs("inventory", *b.Inventory, func(i models.InventoryItem) string { return i.ID }); err != nil {
			return err
		}
	}
	if b.Suppliers != nil {
		if err := uniqueIDs("suppliers", *b.Suppliers, func(s models.Supplier) string { return s.ID }); err != nil {
			return err
		}
	}
	if b.Transactions != nil {
		if err := uniqueIDs("transactions", *b.Transactions, func(t models.Transaction) string { return t.ID }); err != nil {
			return err
		}
	}
	if b.Goals != nil {
		if err := uniqueIDs("goals", *b.Goals, func(g models.Goal) string { return g.ID }); err != nil {
			return err
		}
	}
	return nil
}

func uniqueIDs[T any](collection string, rows []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		key := strings.TrimSpace(id(row))
		if key == "" {
			return fmt.Errorf("%w: %s record %d has no id", ErrInvalidBundle, collection, i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s id %q appears more than once", ErrInvalidBundle, collection, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

type sheet struct {
	name    string
	headers []string
	rows    [][]interface{}
}

// WriteWorkbook renders the current records as an xlsx workbook, one sheet
// per collection.
func (s *Service) WriteWorkbook(ctx context.Context, w io.Writer) error {
	bundle, err := s.Export(ctx)
	if err != nil {
		return err
	}

	sheets := []sheet{
		{name: "Inventory", headers: []string{"ID", "Name", "Category", "Brand", "Size", "Condition", "Purchase Price", "Purchase Date", "Estimated Sell Price", "Actual Sell Price", "Sold Date", "Status", "Listing URL"}},
		{name: "Suppliers", headers: []string{"ID", "Name", "Country", "Email", "Phone", "MOQ", "Unit Price", "Shipping Cost", "Lead Time Days", "Rating"}},
		{name: "Transactions", headers: []string{"ID", "Type", "Date", "Amount", "Item ID", "Description", "Category"}},
		{name: "Goals", headers: []string{"ID", "Title", "Type", "Target", "Current", "Progress %", "Deadline", "Period"}},
	}
	for _, item := range *bundle.Inventory {
		var sold interface{}
		if item.ActualSellPrice != nil {
			sold = *item.ActualSellPrice
		}
		sheets[0].rows = append(sheets[0].rows, []interface{}{
			item.ID, item.Name, string(item.Category), item.Brand, item.Size, string(item.Condition),
			item.PurchasePrice, item.PurchaseDate, item.EstimatedSellPrice, sold, item.SoldDate, string(item.Status), item.ListingURL,
		})
	}
	for _, sup := range *bundle.Suppliers {
		var rating interface{}
		if sup.Rating != nil {
			rating = *sup.Rating
		}
		sheets[1].rows = append(sheets[1].rows, []interface{}{
			sup.ID, sup.Name, sup.Country, sup.ContactEmail, sup.ContactPhone, sup.MinimumOrderQuantity,
			sup.UnitPrice, sup.ShippingCost, sup.LeadTimeDays, rating,
		})
	}
	for _, tx := range *bundle.Transactions {
		sheets[2].rows = append(sheets[2].rows, []interface{}{
			tx.ID, string(tx.Type), tx.Date, tx.Amount, tx.ItemID, tx.Description, tx.Category,
		})
	}
	for _, g := range *bundle.Goals {
		sheets[3].rows = append(sheets[3].rows, []interface{}{
			g.ID, g.Title, string(g.Type), g.Target, g.Current, g.Progress(), g.Deadline, string(g.Period),
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	for i, header := range sh.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sh.name, cell, header); err != nil {
			return fmt.Errorf("write %s header: %w", strings.ToLower(sh.name), err)
		}
		if err := f.SetCellStyle(sh.name, cell, cell, headerStyle); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.name, colName, colName, 18); err != nil {
			return err
		}
	}

	for rowIdx, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", strings.ToLower(sh.name), rowIdx+1, err)
		}
	}
	return nil
}

func nonNil[T any](rows []T) *[]T {
	if rows == nil {
		rows = []T{}
	}
	return &rows
}

func count[T any](rows []T) *int {
	n := len(rows)
	return &n
}
