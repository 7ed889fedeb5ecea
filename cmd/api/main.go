package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/app"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/catalog"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/repository"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/infrastructure/persistence"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/querycache"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/uploader"
)

var (
	addr = flag.String("addr", env("ADDR", ":4443"), "web server address")
	cert = flag.String("cert", env("CERT_FILE", ""), "path of TLS certificate file")
	key  = flag.String("key", env("CERT_KEY", ""), "path of TLS private key file")
)

func main() {
	godotenv.Load()
	flag.Parse()

	var gw repository.Gateway
	var sess *session.Session
	if env("DB_DRIVER", "memory") == "dynamodb" {
		sess = session.Must(session.NewSession())
		gw = persistence.NewDynamoGateway(sess)
	} else {
		gw = persistence.NewMemoryGateway()
	}

	var store repository.ObjectStore
	if bucket := os.Getenv("AWS_S3_CLIP_BUCKET"); bucket != "" {
		if sess == nil {
			sess = session.Must(session.NewSession())
		}
		store = persistence.NewS3ObjectStore(sess, bucket)
	} else {
		log.Println("AWS_S3_CLIP_BUCKET is not set, uploads are kept in memory")
		store = persistence.NewMemoryObjectStore()
	}

	svc := catalog.NewService(gw, querycache.New())
	uploads := uploader.NewCoordinator(store, svc)
	uploads.SetNotifier(func(success bool, message string) {
		log.Printf("upload notification (success=%v): %s", success, message)
	})

	r := mux.NewRouter()
	app.SetupRoutes(r, svc, uploads, uploader.NewResumable(store), catalog.DefaultDisplayPolicy())

	cors := handlers.CORS(
		handlers.AllowedOrigins(strings.Split(env("ALLOWED_ORIGINS", "*"), ",")),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Content-Range", "X-Upload-Content-Length", "X-Upload-Content-Type"}),
	)

	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, cors(r)),
		Addr:         *addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("the server started on port: %s\n", *addr)

	if *cert != "" && *key != "" {
		log.Fatal(srv.ListenAndServeTLS(*cert, *key))
	} else {
		log.Fatal(srv.ListenAndServe())
	}
}
