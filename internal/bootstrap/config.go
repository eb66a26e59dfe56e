package bootstrap

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	RedisUrl      string        `mapstructure:"REDIS_URL"`
	MongoUri      string        `mapstructure:"MONGO_URI"`
	MongoDatabase string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors   bool          `mapstructure:"LOCAL_CORS"`
	BoardSize     int           `mapstructure:"BOARD_SIZE"`
	SgfTTL        time.Duration `mapstructure:"SGF_TTL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "goban")
	v.SetDefault("LOCAL_CORS", false)
	v.SetDefault("BOARD_SIZE", 19)
	v.SetDefault("SGF_TTL", "24h")
}

// Setup reads cfgPath (a .env file) on top of the defaults. A missing file is
// not an error; environment variables override both.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")

	err := v.ReadInConfig()
	var pathErr *fs.PathError
	if err != nil && !errors.As(err, &pathErr) {
		return nil, err
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
