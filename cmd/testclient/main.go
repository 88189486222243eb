package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"house-price-gateway/internal/client"
	"house-price-gateway/internal/feature"
	"house-price-gateway/internal/location"
	"house-price-gateway/internal/scoreboard"
	"house-price-gateway/internal/session"

	"github.com/sirupsen/logrus"
)

func main() {
	engineURL := flag.String("engine", "http://localhost:8000", "адрес движка оценки")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "предел ожидания ответа движка")
	locationsFile := flag.String("locations", "", "файл справочника локаций (по умолчанию встроенный)")
	city := flag.String("city", "", "город (если не задан и город один, выбирается автоматически)")
	district := flag.String("district", "Kadikoy", "район")
	neighborhood := flag.String("neighborhood", "Moda", "микрорайон")
	netArea := flag.String("area", "100", "полезная площадь, м²")
	rooms := flag.String("rooms", "2", "количество комнат")
	livingRooms := flag.String("living-rooms", "1", "количество гостиных")
	age := flag.String("age", "5", "возраст здания, лет")
	balconies := flag.String("balconies", "1", "количество балконов")
	inComplex := flag.String("complex", "1", "в жилом комплексе (0/1)")
	floor := flag.String("floor", "Normal", "тип этажа: Normal, Dubleks, Tripleks")
	verbose := flag.Bool("v", false, "подробный лог")
	flag.Parse()

	err := run(options{
		engineURL:     *engineURL,
		timeout:       *timeout,
		locationsFile: *locationsFile,
		city:          *city,
		district:      *district,
		neighborhood:  *neighborhood,
		verbose:       *verbose,
		raw: feature.RawFields{
			NetArea:         *netArea,
			RoomCount:       *rooms,
			LivingRoomCount: *livingRooms,
			BuildingAge:     *age,
			BalconyCount:    *balconies,
			InComplex:       *inComplex,
			FloorType:       *floor,
		},
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// options параметры запуска клиента
type options struct {
	engineURL     string
	timeout       time.Duration
	locationsFile string
	city          string
	district      string
	neighborhood  string
	verbose       bool
	raw           feature.RawFields
}

// run проходит форму целиком: здоровье движка, выбор локации, оценка, табло моделей
func run(opts options) error {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	hierarchy, err := loadHierarchy(opts.locationsFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки справочника: %w", err)
	}

	engine := client.NewEngineClient(opts.engineURL, client.Options{
		Timeout:          opts.timeout,
		DefaultCurrency:  "TRY",
		SendNeighborhood: true,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout+5*time.Second)
	defer cancel()

	// Проверяем состояние движка
	fmt.Println("Проверяем состояние движка...")
	health, err := engine.CheckHealth(ctx)
	if err != nil {
		return fmt.Errorf("движок недоступен: %w", err)
	}
	fmt.Printf("Движок: %s %s\n\n", health.Status, health.Message)

	s := session.New(hierarchy, engine, scoreboard.NewFetcher(engine, logger), feature.Options{RequireNeighborhood: true})
	defer s.Close()

	if opts.city != "" {
		s.SetCity(opts.city)
	}
	fmt.Printf("Город: %s\n", s.Selection().City())
	if _, err := s.SetDistrict(opts.district); err != nil {
		return fmt.Errorf("ошибка выбора района: %w", err)
	}
	sel, err := s.SetNeighborhood(opts.neighborhood)
	if err != nil {
		return fmt.Errorf("ошибка выбора микрорайона: %w", err)
	}
	fmt.Printf("Доступные микрорайоны района %s: %v\n", sel.District(), sel.AvailableNeighborhoods())

	out, err := s.Submit(ctx, opts.raw)
	if err != nil {
		var vErr *feature.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Errorf("форма заполнена неверно: поле %s: %s", vErr.Field, vErr.Reason)
		}
		return fmt.Errorf("ошибка оценки: %w", err)
	}

	fmt.Printf("Оценка: %.0f %s\n", out.Result.EstimatedPrice, out.Result.Currency)
	if out.Result.ModelVersion != nil {
		fmt.Printf("Модель: %s\n", *out.Result.ModelVersion)
	}

	board := s.RefreshScoreboard(ctx)
	if board == nil {
		fmt.Println("\nТабло моделей недоступно")
		return nil
	}

	fmt.Printf("\nАктивная модель: %s (лучший R2 %.3f)\n", board.ActiveModelName, board.BestR2Score)
	if board.TrainingDate != nil {
		fmt.Printf("Дата обучения: %s\n", *board.TrainingDate)
	}
	for i, e := range board.Entries {
		marker := " "
		if e.ModelName == board.ActiveModelName {
			marker = "*"
		}
		fmt.Printf("%s %d. %-20s R2=%.3f MAE=%.0f\n", marker, i+1, e.ModelName, e.R2Score, e.MeanAbsoluteError)
	}
	return nil
}

// loadHierarchy читает справочник из файла или берет встроенный
func loadHierarchy(path string) (*location.Hierarchy, error) {
	if path == "" {
		return location.LoadDefault()
	}
	return location.LoadFile(path)
}
