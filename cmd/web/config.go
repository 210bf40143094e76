package main

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Port      int    `mapstructure:"PORT"`
	StaticDir string `mapstructure:"STATIC_DIR"`
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("PORT", 3000)
	v.SetDefault("STATIC_DIR", "./dist")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
