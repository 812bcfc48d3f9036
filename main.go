package main

import (
	"log"

	"github.com/circlehq/circle-api/config"
	"github.com/circlehq/circle-api/db"
	"github.com/circlehq/circle-api/server"
	"github.com/circlehq/circle-api/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	mediaRepo := db.NewMediaRepo(gormDB)

	store, err := newBlobStore(conf)
	if err != nil {
		log.Fatalf("error setting up storage: %v", err)
	}

	mediaService := services.NewMediaService(mediaRepo, store, conf.MaxUploadSize)

	s := &server.Server{
		Config:       conf,
		DB:           gormDB,
		MediaService: mediaService,
	}
	s.Start()
}

// newBlobStore picks S3 when a bucket is configured and the local upload
// directories otherwise.
func newBlobStore(conf *config.Config) (services.BlobStore, error) {
	if conf.AwsBucket != "" {
		log.Printf("storing uploads in S3 bucket %s", conf.AwsBucket)
		return services.NewS3Store(conf)
	}
	return services.NewDiskStore(conf.UploadDir, conf.ThumbnailDir)
}
