package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MonitorAddress string `mapstructure:"monitor_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig holds the board defaults and gameplay toggles.
type GameConfig struct {
	Width      int  `mapstructure:"width"`
	Height     int  `mapstructure:"height"`
	Mines      int  `mapstructure:"mines"`
	MaxPlayers int  `mapstructure:"max_players"`
	EasyFlag   bool `mapstructure:"easy_flag"`
	BFSOpen    bool `mapstructure:"bfs_open"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.monitor_address", ":9100")
	viper.SetDefault("game.width", 9)
	viper.SetDefault("game.height", 9)
	viper.SetDefault("game.mines", 10)
	viper.SetDefault("game.max_players", 4)
	viper.SetDefault("game.easy_flag", true)
	viper.SetDefault("game.bfs_open", false)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
