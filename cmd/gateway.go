package main

import (
	"fmt"

	"github.com/joho/godotenv"
	ctx "github.com/jbchangelogs/gateway/pkg/context"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

func main() {

	configInit()
	config := loadConfig()
	setupLogging(config.LogLevel)

	bytes, _ := yaml.Marshal(config)
	log.Tracef("Resolved config:\n%+v", string(bytes))

	context := ctx.NewContext(config)
	context.SetupRoutes()

	port := viper.GetInt("port")
	log.Printf("Gateway starting on port %v", port)
	log.Fatal(context.BuildServer(port).ListenAndServe())
}

func setupLogging(logLevel ctx.LogLevel) {
	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})

	switch logLevel {
	case ctx.Info:
		log.SetLevel(log.InfoLevel)
	case ctx.Debug:
		log.SetLevel(log.DebugLevel)
	case ctx.Trace:
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

func loadConfig() *ctx.GatewayConfiguration {
	var config ctx.GatewayConfiguration
	err := viper.Unmarshal(&config)
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}

	viper.SetEnvPrefix("")
	_ = viper.BindEnv("BASE_API_URL")
	if baseUrl := viper.GetString("BASE_API_URL"); baseUrl != "" {
		config.Upstream.BaseUrl = baseUrl
	}

	_ = viper.BindEnv("PUBLIC_API_URL")
	if publicUrl := viper.GetString("PUBLIC_API_URL"); publicUrl != "" {
		config.Upstream.PublicUrl = publicUrl
	}

	_ = viper.BindEnv("OAUTH_STATE_SECRET")
	if secret := viper.GetString("OAUTH_STATE_SECRET"); secret != "" {
		config.Secrets.OauthState = secret
	}

	_ = viper.BindEnv("CSRF_SECRET")
	if secret := viper.GetString("CSRF_SECRET"); secret != "" {
		config.Secrets.Csrf = secret
	}
	return &config
}

func configInit() {
	// Local development keeps secrets in a .env file, missing is fine.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd")

	// Defaults
	viper.SetDefault("port", 8080)

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
}
