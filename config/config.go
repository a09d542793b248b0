package config

import "github.com/spf13/viper"

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	AccessSecret   string `mapstructure:"ACCESS_SECRET"`
	RefreshSecret  string `mapstructure:"REFRESH_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`

	GigaChatAuthURL      string `mapstructure:"GIGACHAT_AUTH_URL"`
	GigaChatAPIURL       string `mapstructure:"GIGACHAT_API_URL"`
	GigaChatScope        string `mapstructure:"GIGACHAT_SCOPE"`
	GigaChatClientID     string `mapstructure:"GIGACHAT_CLIENT_ID"`
	GigaChatClientSecret string `mapstructure:"GIGACHAT_CLIENT_SECRET"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// ВАЖНО: явно биндим, иначе viper не увидит переменные без конфиг-файла
	keys := []string{
		"HTTP_PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_ADDR",
		"ACCESS_SECRET", "REFRESH_SECRET", "ALLOWED_ORIGINS",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URI",
		"GIGACHAT_AUTH_URL", "GIGACHAT_API_URL", "GIGACHAT_SCOPE",
		"GIGACHAT_CLIENT_ID", "GIGACHAT_CLIENT_SECRET",
		"TELEGRAM_BOT_TOKEN",
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}
