package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Режимы работы хранилища.
const (
	ModePostgres = "postgres"
	ModeSQLite   = "sqlite"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress string `json:"server_address"`
	DatabaseDSN   string `json:"database_dsn"`
	SQLitePath    string `json:"sqlite_path"`
	EnableHTTPS   bool   `json:"enable_https"`
	TLSCertPath   string `json:"tls_cert_path"`
	TLSKeyPath    string `json:"tls_key_path"`
	Mode          string `json:"-"`
}

// NewConfig инициализирует конфигурацию на основе аргументов командной строки
func NewConfig() *Config {

	viper.SetDefault("SERVER_ADDRESS", "localhost:8080") // Значения по умолчанию
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "data/easylink.db")
	viper.SetDefault("ENABLE_HTTPS", false)
	viper.SetDefault("TLS_CERT_PATH", "cert.pem")
	viper.SetDefault("TLS_KEY_PATH", "key.pem")

	viper.AutomaticEnv()

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // Ошибку игнорируем, если файла нет

	// Определяем флаги, но НЕ задаем в них значения по умолчанию
	serverAddress := flag.String("a", "", "server address")
	databaseDSN := flag.String("d", "", "PostgreSQL DSN")
	sqlitePath := flag.String("f", "", "SQLite database path")
	enableHTTPS := flag.Bool("s", false, "enable HTTPS")
	tlsCertPath := flag.String("cert", "", "path to TLS certificate")
	tlsKeyPath := flag.String("key", "", "path to TLS key")
	configPath := flag.String("c", "", "path to JSON config file")
	flag.StringVar(configPath, "config", "", "path to JSON config file")

	flag.Parse()

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}

	cfg := &Config{
		ServerAddress: viper.GetString("SERVER_ADDRESS"),
		DatabaseDSN:   viper.GetString("DATABASE_DSN"),
		SQLitePath:    viper.GetString("SQLITE_PATH"),
		EnableHTTPS:   viper.GetBool("ENABLE_HTTPS"),
		TLSCertPath:   viper.GetString("TLS_CERT_PATH"),
		TLSKeyPath:    viper.GetString("TLS_KEY_PATH"),
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Printf("Не удалось прочитать JSON-файл конфигурации %q: %v", *configPath, err)
		} else if err := json.Unmarshal(data, cfg); err != nil {
			log.Printf("Ошибка разбора JSON-файла конфигурации: %v", err)
		}
	}

	// Если флаг передан — он имеет высший приоритет
	if *serverAddress != "" {
		cfg.ServerAddress = *serverAddress
	}
	if *databaseDSN != "" {
		cfg.DatabaseDSN = *databaseDSN
	}
	if *sqlitePath != "" {
		cfg.SQLitePath = *sqlitePath
	}
	if *enableHTTPS {
		cfg.EnableHTTPS = true
	}
	if *tlsCertPath != "" {
		cfg.TLSCertPath = *tlsCertPath
	}
	if *tlsKeyPath != "" {
		cfg.TLSKeyPath = *tlsKeyPath
	}

	// Определяем режим работы: задан DSN — PostgreSQL, иначе SQLite
	if cfg.DatabaseDSN != "" {
		cfg.Mode = ModePostgres
	} else {
		cfg.Mode = ModeSQLite
	}

	log.Printf("Инициализация конфигурации: ServerAddress=%s", cfg.ServerAddress)
	log.Printf("Инициализация конфигурации: Mode=%s", cfg.Mode)
	log.Printf("Инициализация конфигурации: EnableHTTPS=%v", cfg.EnableHTTPS)

	// Проверка корректности конфигурации
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Ошибка конфигурации: %v\n", err)
	}

	return cfg
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return fmt.Errorf("адрес сервера не может быть пустым")
	}
	if cfg.Mode == ModeSQLite && cfg.SQLitePath == "" {
		return fmt.Errorf("путь к файлу базы данных не может быть пустым")
	}
	if cfg.EnableHTTPS && (cfg.TLSCertPath == "" || cfg.TLSKeyPath == "") {
		return fmt.Errorf("для HTTPS нужны пути к сертификату и ключу")
	}
	return nil
}
