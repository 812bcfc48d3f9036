package db

import (
	"fmt"
	"log"

	"github.com/circlehq/circle-api/config"
	"github.com/circlehq/circle-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = openDB(c)

	if err := Migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func openDB(c *config.Config) *gorm.DB {
	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	if !c.UsePostgres() {
		log.Printf("no postgres host configured, using sqlite at %s", c.SqlitePath)
		gormDB, err := gorm.Open(sqlite.Open(c.SqlitePath), gormConfig)
		if err != nil {
			log.Fatal(err)
		}
		return gormDB
	}

	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=require",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

// Migrate keeps circle_table plus the inert family sketch tables current.
// Exposed because the /debug/create-table route re-runs it on demand.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Media{},
		&models.User{},
		&models.FamilyGroup{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}
	return nil
}
