package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	GameResult  string `mapstructure:"game_result"`
	RankUp      string `mapstructure:"rank_up"`
	DailyReward string `mapstructure:"daily_reward"`
}

type BusinessConfig struct {
	StartingBalance        int64 `mapstructure:"starting_balance"`          // 注册赠送金币
	DailyRewardAmount      int64 `mapstructure:"daily_reward_amount"`       // 每日奖励金额
	DailyRewardWindowHours int   `mapstructure:"daily_reward_window_hours"` // 每日奖励冷却（小时）
	LeaderboardLimit       int   `mapstructure:"leaderboard_limit"`         // 排行榜默认条数
	LeaderboardCacheTTL    int   `mapstructure:"leaderboard_cache_ttl"`     // 排行榜缓存秒数
	MaxRetryCount          int   `mapstructure:"max_retry_count"`           // 发件箱最大重试次数
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	GlobalConfig = config
	return config
}
