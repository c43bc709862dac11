package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	RabbitURL       string
	RedisAddr       string
	RateLimitPerMin int
	ImageDir        string
	Prod            bool
}

func Load() Config {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "recipe_db")
	viper.SetDefault("JWT_SECRET", "default_secret_key")
	viper.SetDefault("RABBIT_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("RATE_LIMIT_PER_MIN", 30)
	viper.SetDefault("IMAGE_DIR", "images")
	viper.SetDefault("PROD", false)
	viper.AutomaticEnv()

	return Config{
		Port:            viper.GetString("APP_PORT"),
		MongoURI:        viper.GetString("MONGO_URI"),
		MongoDB:         viper.GetString("MONGO_DB"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		RabbitURL:       viper.GetString("RABBIT_URL"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		RateLimitPerMin: viper.GetInt("RATE_LIMIT_PER_MIN"),
		ImageDir:        viper.GetString("IMAGE_DIR"),
		Prod:            viper.GetBool("PROD"),
	}
}
