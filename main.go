package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"library-api/handlers"
	"library-api/middleware"
	"library-api/store"
	"library-api/utils"
	"library-api/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dsnFromEnv() string {
	user := envOr("DB_USER", "root")
	pass := envOr("DB_PASS", "")
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "3306")
	name := envOr("DB_NAME", "library")

	return user + ":" + pass + "@tcp(" + host + ":" + port + ")/" + name + "?parseTime=true"
}

func main() {
	godotenv.Load()

	st, err := store.NewMySQLStore(dsnFromEnv())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	if err := st.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("Connected to MySQL database")

	hub := utils.NewHub()
	go hub.Run()

	notifier := workers.NewNotifier(st)
	notifier.Start()
	defer notifier.Stop()

	router := handlers.NewRouter(st, hub)
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("public")))

	port := envOr("PORT", "5000")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      middleware.Logging(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("Server running on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
