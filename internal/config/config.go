package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort string
	GinMode    string
	Bambu      BambuConfig
	Obs        ObsConfig
	App        PolicyConfig
	Kafka      KafkaConfig
	Database   DatabaseConfig
	Logging    LoggerConfig
}

// BambuConfig содержит параметры подключения к принтеру (MQTT и FTP)
type BambuConfig struct {
	IP         string
	MqttPort   int
	FtpPort    int
	Username   string
	AccessCode string
	Serial     string
	SDPPath    string // путь к .sdp файлу видеопотока камеры
}

// ObsConfig содержит параметры подключения к OBS и политики стрима
type ObsConfig struct {
	Address              string
	Password             string
	StartStreamOnStartup bool
	StopStreamOnIdle     bool
	ForceCreateInputs    bool
	LockInputs           bool
}

// PolicyConfig содержит политики жизненного цикла процесса
type PolicyConfig struct {
	ExitOnIdle               bool
	ExitOnEndpointDisconnect bool
	DumpSceneAndExit         bool
	ImagesDir                string
}

// KafkaConfig содержит настройки экспорта нормализованной телеметрии
type KafkaConfig struct {
	Enable bool
	Broker string
	Topic  string
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Enable   bool
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort: getEnv("APP_PORT", "8082"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		Bambu: BambuConfig{
			IP:         getEnv("BAMBU_IP", "192.168.1.100"),
			MqttPort:   getEnvAsInt("BAMBU_MQTT_PORT", 8883),
			FtpPort:    getEnvAsInt("BAMBU_FTP_PORT", 990),
			Username:   getEnv("BAMBU_USERNAME", "bblp"),
			AccessCode: getEnv("BAMBU_ACCESS_CODE", ""),
			Serial:     getEnv("BAMBU_SERIAL", ""),
			SDPPath:    getEnv("BAMBU_SDP_PATH", "./bambu.sdp"),
		},
		Obs: ObsConfig{
			Address:              getEnv("OBS_WS_ADDRESS", "localhost:4455"),
			Password:             getEnv("OBS_WS_PASSWORD", ""),
			StartStreamOnStartup: getEnvAsBool("OBS_START_STREAM_ON_STARTUP", false),
			StopStreamOnIdle:     getEnvAsBool("OBS_STOP_STREAM_ON_IDLE", true),
			ForceCreateInputs:    getEnvAsBool("OBS_FORCE_CREATE_INPUTS", false),
			LockInputs:           getEnvAsBool("OBS_LOCK_INPUTS", true),
		},
		App: PolicyConfig{
			ExitOnIdle:               getEnvAsBool("APP_EXIT_ON_IDLE", false),
			ExitOnEndpointDisconnect: getEnvAsBool("APP_EXIT_ON_DISCONNECT", true),
			DumpSceneAndExit:         getEnvAsBool("APP_DUMP_SCENE_AND_EXIT", false),
			ImagesDir:                getEnv("APP_IMAGES_DIR", "./images"),
		},
		Kafka: KafkaConfig{
			Enable: getEnvAsBool("KAFKA_ENABLE", false),
			Broker: getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:  getEnv("KAFKA_TOPIC", "bambu_status"),
		},
		Database: DatabaseConfig{
			Enable:   getEnvAsBool("DB_ENABLE", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "bambu_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
	}

	return config, nil
}

// PreviewImagePath возвращает путь, по которому сохраняется превью текущего задания.
func (c *AppConfig) PreviewImagePath() string {
	return filepath.Join(c.App.ImagesDir, "preview.png")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}
