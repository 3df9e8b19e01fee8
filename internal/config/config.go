package config

import (
	"github.com/spf13/viper"

	"backend-stridelog/internal/gait"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`

	// Pipeline constants. The defaults match the phone sensor exports the
	// service was built for; changing them changes every estimate.
	SampleRateHz float64 `mapstructure:"SAMPLE_RATE_HZ"`
	CutoffHz     float64 `mapstructure:"CUTOFF_HZ"`
	FilterOrder  int     `mapstructure:"FILTER_ORDER"`
	WelchSegment int     `mapstructure:"WELCH_SEGMENT"`

	MapZoom      int   `mapstructure:"MAP_ZOOM"`
	MapCacheSize int   `mapstructure:"MAP_CACHE_SIZE"`
	MaxUploadMB  int64 `mapstructure:"MAX_UPLOAD_MB"`
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("SAMPLE_RATE_HZ", 50.0)
	v.SetDefault("CUTOFF_HZ", 3.0)
	v.SetDefault("FILTER_ORDER", 4)
	v.SetDefault("WELCH_SEGMENT", 512)
	v.SetDefault("MAP_ZOOM", 15)
	v.SetDefault("MAP_CACHE_SIZE", 64)
	v.SetDefault("MAX_UPLOAD_MB", 32)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// PipelineParams returns the step pipeline settings. Unset fields keep the
// 50 Hz walking defaults.
func (c Config) PipelineParams() gait.Params {
	p := gait.DefaultParams()
	if c.SampleRateHz > 0 {
		p.SampleRate = c.SampleRateHz
		p.PeakSpacing = 0
	}
	if c.CutoffHz > 0 {
		p.Cutoff = c.CutoffHz
	}
	if c.FilterOrder > 0 {
		p.Order = c.FilterOrder
	}
	if c.WelchSegment > 0 {
		p.WelchSegment = c.WelchSegment
	}
	return p
}
