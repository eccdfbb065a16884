package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the memeland airdrop deployment. Every value can be
// overridden from the environment / .env file.
const (
	DEFAULT_PROGRAM_ID = "4y6rh1SKMAGvunes2gHCeJkEkmPVDLhWYxNg8Zpd7RqH"
	DEFAULT_RPC_URL    = "https://api.mainnet-beta.solana.com"
	DEFAULT_CRON_SPEC  = "15 0 * * *"
)

var RPC_URL string
var PROGRAM_ID string
var TOKEN_MINT string
var WALLET_KEYPAIR string
var DISTRIBUTION_FILE string
var CRON_SPEC string
var BACKFILL bool

var log = InitLogger()

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

func InitConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	RPC_URL = getenvDefault("RPC_URL", DEFAULT_RPC_URL)
	PROGRAM_ID = getenvDefault("PROGRAM_ID", DEFAULT_PROGRAM_ID)
	TOKEN_MINT = os.Getenv("TOKEN_MINT")
	WALLET_KEYPAIR = os.Getenv("WALLET_KEYPAIR")
	DISTRIBUTION_FILE = os.Getenv("DISTRIBUTION_FILE")
	CRON_SPEC = getenvDefault("CRON_SPEC", DEFAULT_CRON_SPEC)

	var err error
	BACKFILL, err = strconv.ParseBool(getenvDefault("BACKFILL", "false"))
	if err != nil {
		log.Error("Error parsing BACKFILL, defaulting to false")
		BACKFILL = false
	}

	if TOKEN_MINT == "" {
		return errors.New("TOKEN_MINT must be set")
	}

	return nil
}

func LoadPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		DBName:   os.Getenv("DB_NAME"),
	}
}

// AuditEnabled reports whether the optional Postgres run-audit store is
// configured. The client works without it.
func AuditEnabled() bool {
	return os.Getenv("DB_HOST") != ""
}

func LoadTelegramConfig() *TelegramConfig {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil
	}
	chatId, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if err != nil {
		log.Error("Error parsing TELEGRAM_CHAT_ID")
		return nil
	}
	return &TelegramConfig{
		BotToken: token,
		ChatID:   chatId,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
