// cmd/quiz-importer - Seeds quizzes from a JSON file
//
// Usage: quiz-importer [path]
// The file holds an array of quizzes with their questions. Existing
// quizzes with the same title are skipped, so reruns are safe.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"quizarena/database"
	"quizarena/models"

	"github.com/joho/godotenv"
)

type jsonQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int      `json:"points"`
	Difficulty    string   `json:"difficulty"`
}

type jsonQuiz struct {
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	TimeLimit int            `json:"time_limit"`
	Questions []jsonQuestion `json:"questions"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	jsonPath := "./seed/quizzes.json"
	if len(os.Args) > 1 {
		jsonPath = os.Args[1]
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		log.Fatal("Failed to read JSON file:", err)
	}

	var quizzes []jsonQuiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		log.Fatal("Failed to parse JSON:", err)
	}

	database.InitDB()
	defer database.CloseDB()
	db := database.GetDB()

	imported, skipped := 0, 0
	for _, q := range quizzes {
		if q.Title == "" || len(q.Questions) == 0 {
			log.Printf("⚠️ Skipping quiz %q: missing title or questions", q.Title)
			skipped++
			continue
		}
		if q.Category == "" {
			q.Category = models.DefaultCategory
		}
		if !models.ValidCategory(q.Category) {
			log.Printf("⚠️ Skipping quiz %q: unknown category %q", q.Title, q.Category)
			skipped++
			continue
		}

		var count int64
		db.Model(&models.Quiz{}).Where("title = ?", q.Title).Count(&count)
		if count > 0 {
			skipped++
			continue
		}

		quiz := models.Quiz{
			Title:     q.Title,
			Category:  q.Category,
			TimeLimit: q.TimeLimit,
			IsPublic:  true,
		}
		if quiz.TimeLimit == 0 {
			quiz.TimeLimit = 30
		}
		valid := true
		for _, jq := range q.Questions {
			if len(jq.Options) < 2 || jq.CorrectAnswer < 0 || jq.CorrectAnswer >= len(jq.Options) {
				log.Printf("⚠️ Skipping quiz %q: bad question %q", q.Title, jq.Text)
				valid = false
				break
			}
			points := jq.Points
			if points == 0 {
				points = 10
			}
			quiz.Questions = append(quiz.Questions, models.Question{
				Text:          jq.Text,
				Options:       jq.Options,
				CorrectAnswer: jq.CorrectAnswer,
				Points:        points,
				Difficulty:    jq.Difficulty,
			})
		}
		if !valid {
			skipped++
			continue
		}

		if err := db.Create(&quiz).Error; err != nil {
			log.Fatal("Failed to insert quiz:", err)
		}
		imported++
		fmt.Printf("✅ Imported %q (%d questions)\n", quiz.Title, len(quiz.Questions))
	}

	fmt.Printf("Done: %d imported, %d skipped\n", imported, skipped)
}
