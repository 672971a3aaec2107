package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/tuffwear/tuff-backend/config"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/db"
	"github.com/tuffwear/tuff-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seeds the catalog from an XLSX workbook and optionally bootstraps the
// first super admin.
//
// Usage:
//
//	go run cmd/seed/main.go catalog.xlsx
//	go run cmd/seed/main.go --admin admin@example.com <password>
//
// Expected workbook columns:
//
//	SKU | Name | Category | Price | Inventory | Sizes | Colors | Description | Images | IsNew
//
// Sizes, Colors and Images are pipe separated ("S|M|L").
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> | --admin <email> <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if os.Args[1] == "--admin" {
		if len(os.Args) < 4 {
			log.Fatal("Usage: go run cmd/seed/main.go --admin <email> <password>")
		}
		seedAdmin(os.Args[2], os.Args[3])
		return
	}

	filePath := os.Args[1]
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	var imported, skipped int
	for i := range products {
		existing, err := productRepo.FindBySKU(products[i].SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatal("Failed to check existing SKU:", err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if err := productRepo.Create(&products[i]); err != nil {
			log.Fatal("Failed to create product:", err)
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Imported: %d, skipped (duplicate SKU): %d\n", imported, skipped)
}

func seedAdmin(email, password string) {
	userRepo := repository.NewUserRepository(db.GetDB())

	existing, err := userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to check existing user:", err)
	}

	var user *model.User
	if existing != nil {
		user = existing
		fmt.Printf("User %s already exists, granting super_admin\n", email)
	} else {
		hash, err := util.HashPassword(password)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		user = &model.User{
			Email:        strings.ToLower(email),
			PasswordHash: hash,
			FullName:     "Administrator",
		}
		if err := userRepo.Create(user); err != nil {
			log.Fatal("Failed to create admin user:", err)
		}
	}

	if err := userRepo.AssignRole(user.ID, model.RoleSuperAdmin); err != nil {
		log.Fatal("Failed to assign role:", err)
	}
	fmt.Printf("Super admin ready: %s (id=%d)\n", user.Email, user.ID)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenSKUs := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		sku := cell(row, 0)
		name := cell(row, 1)
		category := cell(row, 2)
		priceStr := cell(row, 3)
		inventoryStr := cell(row, 4)

		if sku == "" || name == "" || category == "" {
			skipped++
			continue
		}
		if seenSKUs[sku] {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			skipped++
			continue
		}

		inventory, err := strconv.Atoi(inventoryStr)
		if err != nil || inventory < 0 {
			inventory = 0
		}

		seenSKUs[sku] = true
		products = append(products, model.Product{
			SKU:            sku,
			Name:           name,
			Category:       category,
			Price:          price,
			InventoryCount: inventory,
			Sizes:          pq.StringArray(splitList(cell(row, 5))),
			Colors:         pq.StringArray(splitList(cell(row, 6))),
			Description:    cell(row, 7),
			Images:         pq.StringArray(splitList(cell(row, 8))),
			IsNew:          strings.EqualFold(cell(row, 9), "true"),
			IsActive:       true,
			SoldOut:        inventory <= 0,
		})
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d invalid or duplicate rows\n", skipped)
	}
	return products, nil
}
