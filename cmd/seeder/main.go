package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/commatch"
	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/profile"
)

// sampleProfiles is a small built-in community used when no seed file
// is given. The answers are intentionally varied so keyword and vector
// retrieval both have something to chew on.
var sampleProfiles = []profile.Input{
	{
		UserID: 101, Username: "lena_design", FirstName: "Лена",
		Field:    "Продуктовый дизайн, последние три года работаю над мобильными приложениями для финтеха. Веду небольшую команду дизайнеров и много занимаюсь исследованиями пользователей.",
		Seeking:  "Ищу продактов и разработчиков, с которыми можно обсудить процессы дизайн-ревью и обмен фидбеком между командами. Интересны люди из финтеха и банковских продуктов.",
		Offering: "Могу помочь с аудитом интерфейсов, настройкой дизайн-системы и проведением пользовательских интервью. Делюсь шаблонами исследований.",
	},
	{
		UserID: 102, Username: "pavel_backend", FirstName: "Павел",
		Field:    "Бэкенд разработка на Go и немного на Rust. Строю высоконагруженные сервисы в финтехе, занимаюсь платежными шлюзами и антифродом.",
		Seeking:  "Ищу людей из платежной индустрии и тех, кто работал с высоконагруженными системами. Хочу обсудить архитектуру очередей и шардирование баз данных.",
		Offering: "Помогаю с код-ревью на Go, проектированием API и подготовкой к системным собеседованиям. Могу рассказать про устройство платежного процессинга.",
	},
	{
		UserID: 103, Username: "marina_hr", FirstName: "Марина",
		Field:    "HR и развитие команд в технологических компаниях. Десять лет занимаюсь наймом инженеров и построением процессов онбординга.",
		Seeking:  "Ищу руководителей инженерных команд, чтобы обсудить удержание людей и честную систему грейдов. Интересны кейсы распределённых команд.",
		Offering: "Консультирую по найму, помогаю составить понятные описания вакансий и выстроить процесс интервью без лишних этапов.",
	},
	{
		UserID: 104, Username: "artem_ml", FirstName: "Артём",
		Field:    "Машинное обучение и обработка естественного языка. Занимаюсь поисковыми системами и рекомендациями, до этого работал в стартапе по распознаванию речи.",
		Seeking:  "Ищу инженеров, которые выводили модели в продакшн, и людей с опытом векторного поиска. Хочу обменяться опытом по оценке качества рекомендаций.",
		Offering: "Могу помочь разобраться с эмбеддингами, настройкой векторных баз и метриками ранжирования. Провожу разборы ML-собеседований.",
	},
	{
		UserID: 105, Username: "olga_founder", FirstName: "Ольга",
		Field:    "Основательница стартапа в сфере образования. Мы делаем платформу для корпоративного обучения, команда из двенадцати человек, недавно закрыли посевной раунд.",
		Seeking:  "Ищу фаундеров на похожей стадии и людей с опытом продаж в корпоративный сегмент. Интересны интро к инвесторам ранних стадий.",
		Offering: "Делюсь опытом привлечения посевных инвестиций, устройства пилотов с крупными компаниями и найма первых продавцов.",
	},
	{
		UserID: 106, Username: "dmitry_devops", FirstName: "Дмитрий",
		Field:    "Инфраструктура и надёжность. Отвечаю за Kubernetes-кластеры и наблюдаемость в продуктовой компании, строю внутренние платформы для разработчиков.",
		Seeking:  "Ищу SRE и платформенных инженеров, чтобы обсудить дежурства, бюджеты ошибок и миграции без простоя.",
		Offering: "Помогаю с настройкой мониторинга, разбором инцидентов и проектированием CI/CD. Могу провести ревью инфраструктуры небольшого проекта.",
	},
	{
		UserID: 107, Username: "ksenia_pm", FirstName: "Ксения",
		Field:    "Продакт-менеджер в сервисе доставки. Веду направление подписки, до этого запускала маркетплейс услуг с нуля.",
		Seeking:  "Ищу продактов из подписочных продуктов и аналитиков, с которыми можно сверить подходы к метрикам удержания.",
		Offering: "Помогаю с приоритизацией бэклога, запуском A/B-тестов и подготовкой продуктовой стратегии. Менторю начинающих продактов.",
	},
	{
		UserID: 108, Username: "igor_mobile", FirstName: "Игорь",
		Field:    "Мобильная разработка под iOS, пишу на Swift восемь лет. Сейчас в финтех-приложении отвечаю за платёжные экраны и безопасность.",
		Seeking:  "Ищу мобильных разработчиков из банковских приложений, хочу обсудить биометрию и защиту от скриншотов.",
		Offering: "Провожу ревью iOS-архитектуры, помогаю с настройкой модульности и ускорением сборки больших проектов.",
	},
}

var (
	seedFileName = flag.String("src", "", "JSONL file of profiles to seed")
	dbPath       = flag.String("db", "./commatch_db", "path to the profile store")
	batchSize    = flag.Int("batch", 5, "profiles saved per batch")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// inputsFromFile returns an iterator over profiles in a JSONL file.
// Each line holds one object with user_id, username, first_name,
// last_name, field, seeking and offering keys. Blank lines are skipped.
func inputsFromFile(filename string) (iter.Seq2[profile.Input, error], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(profile.Input, error) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var record struct {
				UserID    int64  `json:"user_id"`
				Username  string `json:"username"`
				FirstName string `json:"first_name"`
				LastName  string `json:"last_name"`
				Field     string `json:"field"`
				Seeking   string `json:"seeking"`
				Offering  string `json:"offering"`
			}
			if err := json.Unmarshal(line, &record); err != nil {
				if !yield(profile.Input{}, fmt.Errorf("parsing seed line: %w", err)) {
					return
				}
				continue
			}
			input := profile.Input{
				UserID:    core.UserID(record.UserID),
				Username:  record.Username,
				FirstName: record.FirstName,
				LastName:  record.LastName,
				Field:     record.Field,
				Seeking:   record.Seeking,
				Offering:  record.Offering,
			}
			if !yield(input, nil) {
				return
			}
		}
	}, nil
}

// inputsFromSlice returns an iterator over a slice of profiles.
func inputsFromSlice(inputs []profile.Input) iter.Seq2[profile.Input, error] {
	return func(yield func(profile.Input, error) bool) {
		for _, input := range inputs {
			if !yield(input, nil) {
				return
			}
		}
	}
}

// seedBatched reads from a source iterator and saves profiles in batches.
func seedBatched(ctx context.Context, pipeline *profile.Pipeline, source iter.Seq2[profile.Input, error], batchSize int) error {
	batch := make([]profile.Input, 0, batchSize)

	for input, err := range source {
		if err != nil {
			return err
		}
		batch = append(batch, input)
		if len(batch) == batchSize {
			if _, err := pipeline.SaveProfiles(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	// Save any remaining profiles
	if len(batch) > 0 {
		if _, err := pipeline.SaveProfiles(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	system, err := commatch.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer system.Close()

	pipeline, err := system.NewPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq2[profile.Input, error]
	if seedFileName != nil && *seedFileName != "" {
		source, err = inputsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = inputsFromSlice(sampleProfiles)
	}

	if err := seedBatched(ctx, pipeline, source, *batchSize); err != nil {
		panic(err)
	}
}
