package main

import (
	"log"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/wonderlic-api/internal/config"
	"github.com/yourusername/wonderlic-api/internal/domain/entity"
	pgRepo "github.com/yourusername/wonderlic-api/internal/repository/postgres"
	"github.com/yourusername/wonderlic-api/pkg/database"
)

// Утилита импорта эталонного набора игроков NFL из xlsx-файла.
// Ожидаемые колонки листа: Name, Position, Team, WonderlicScore, DraftYear.
// Импорт идемпотентен: существующие записи обновляются по паре (name, draft_year).
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import-reference <players.xlsx>")
	}
	path := os.Args[1]

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Применяем миграции, чтобы утилита работала и на чистой базе
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	playerRepo := pgRepo.NewPlayerRepo(db)

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close %s: %v", path, err)
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		log.Fatalf("Failed to read sheet %q: %v", sheet, err)
	}

	imported := 0
	skipped := 0
	for i, row := range rows {
		if len(row) < 5 {
			log.Printf("Строка %d: недостаточно колонок, пропущена", i+1)
			skipped++
			continue
		}

		score, err := strconv.Atoi(row[3])
		if err != nil {
			if i == 0 {
				// Строка заголовка
				continue
			}
			log.Printf("Строка %d: некорректный счет %q, пропущена", i+1, row[3])
			skipped++
			continue
		}
		if score < entity.MinScore || score > entity.MaxScore {
			log.Printf("Строка %d: счет %d вне шкалы Wonderlic, пропущена", i+1, score)
			skipped++
			continue
		}

		draftYear, err := strconv.Atoi(row[4])
		if err != nil {
			log.Printf("Строка %d: некорректный год драфта %q, пропущена", i+1, row[4])
			skipped++
			continue
		}

		player := &entity.NFLPlayer{
			Name:           row[0],
			Position:       row[1],
			Team:           row[2],
			WonderlicScore: score,
			DraftYear:      draftYear,
		}
		if err := playerRepo.Upsert(player); err != nil {
			log.Fatalf("Строка %d: ошибка сохранения игрока %q: %v", i+1, player.Name, err)
		}
		imported++
	}

	log.Printf("Импорт завершен: %d записей сохранено, %d пропущено", imported, skipped)
}
