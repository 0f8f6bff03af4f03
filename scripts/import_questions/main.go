package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Imports vocabulary questions from an Excel workbook. Each sheet
// becomes a battle under a common root; each data row is one
// prompt/answer pair (column A: prompt, column B: correct answer).
//
// Usage: go run ./scripts/import_questions <file.xlsx> [root battle name]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: import_questions <file.xlsx> [root battle name]")
	}
	path := os.Args[1]
	rootName := "Imported"
	if len(os.Args) > 2 {
		rootName = os.Args[2]
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	root := models.Battle{NameUz: rootName, NameRu: rootName, NameEn: rootName}
	if err := db.Where("name_uz = ? AND parent_id IS NULL", rootName).FirstOrCreate(&root).Error; err != nil {
		log.Fatal("failed to create root battle:", err)
	}

	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		battle := models.Battle{NameUz: sheetName, NameRu: sheetName, NameEn: sheetName, ParentID: &root.ID}
		if err := db.Where("name_uz = ? AND parent_id = ?", sheetName, root.ID).FirstOrCreate(&battle).Error; err != nil {
			fmt.Printf("Error creating battle %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 2 { // Skip header or invalid rows
				continue
			}

			prompt := strings.TrimSpace(row[0])
			answer := strings.TrimSpace(row[1])
			if prompt == "" || answer == "" {
				continue
			}

			question := models.Question{
				BattleID:      battle.ID,
				Prompt:        prompt,
				CorrectAnswer: answer,
			}

			if err := db.Create(&question).Error; err != nil {
				fmt.Printf("Error creating question in row %d: %v\n", i, err)
			} else {
				totalImported++
			}
		}
	}

	fmt.Printf("Successfully imported %d questions.\n", totalImported)
}
