package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/delhiaqi/backend/internal/aqi"
	"github.com/delhiaqi/backend/internal/config"
	"github.com/delhiaqi/backend/internal/domain"
	"github.com/delhiaqi/backend/internal/healthrisk"
	"github.com/delhiaqi/backend/internal/model"
	"github.com/delhiaqi/backend/internal/service"
)

// rootCmd runs a single prediction and prints the report
var rootCmd = &cobra.Command{
	Use:   "aqi",
	Short: "Predict Delhi's AQI and print personalised health advice",
	Long: `aqi fetches live pollutant and weather readings for Delhi, predicts the AQI,
scores per-symptom health risks for the given profile and prints tiered advice.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cobra.OnInitialize(initConfig)
	registerFlags(rootCmd)

	flags := rootCmd.Flags()
	viper.BindPFlag("openweather_api_key", flags.Lookup("api-key"))
	viper.BindPFlag("aqi_model_path", flags.Lookup("aqi-model"))
	viper.BindPFlag("health_risk_model_path", flags.Lookup("health-model"))
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int("age", 0, "age in years (1-120)")
	flags.Int("gender", 0, "gender: 0 female, 1 male, 2 other")
	flags.Bool("parent", false, "you are a parent")
	flags.Int("concern", 0, "how worried you are about air pollution (0-10)")
	flags.Bool("respiratory", false, "you have a respiratory condition")
	flags.Bool("privacy", false, "hide personal details from the concern advice")
	flags.String("api-key", "", "OpenWeatherMap API key (or set OPENWEATHER_API_KEY)")
	flags.String("aqi-model", "", "AQI model artifact (or set AQI_MODEL_PATH)")
	flags.String("health-model", "", "health risk model artifact (or set HEALTH_RISK_MODEL_PATH)")
	_ = cmd.MarkFlagRequired("age")
}

// initConfig reads ENV variables if set
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := viper.GetString("openweather_api_key"); v != "" {
		cfg.OpenWeatherAPIKey = v
	}
	if v := viper.GetString("aqi_model_path"); v != "" {
		cfg.AQIModelPath = v
	}
	if v := viper.GetString("health_risk_model_path"); v != "" {
		cfg.HealthRiskModelPath = v
	}

	profile, privacy, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}

	regressor, err := model.LoadRegressor(cfg.AQIModelPath)
	if err != nil {
		return fmt.Errorf("load AQI model: %w", err)
	}
	estimator, err := aqi.NewEstimator(regressor)
	if err != nil {
		return err
	}

	ensemble, err := healthrisk.Load(cfg.HealthRiskModelPath)
	if err != nil {
		log.Printf("Warning: %v", err)
		ensemble = nil
	}

	telemetry := service.NewTelemetryService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.Latitude, cfg.Longitude, cfg.TelemetryTimeout)
	svc := service.NewPredictionService(telemetry, estimator, ensemble, service.WithPrivacyMode(privacy))

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.TelemetryTimeout)
	defer cancel()

	pred, err := svc.Predict(ctx, profile)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), service.RenderReport(pred))
	return nil
}

func profileFromFlags(cmd *cobra.Command) (domain.UserProfile, bool, error) {
	flags := cmd.Flags()

	age, err := flags.GetInt("age")
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	gender, err := flags.GetInt("gender")
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	parent, err := flags.GetBool("parent")
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	privacy, err := flags.GetBool("privacy")
	if err != nil {
		return domain.UserProfile{}, false, err
	}

	profile := domain.UserProfile{Age: age, GenderEnc: gender}
	if parent {
		profile.ParentEnc = 1
	}
	if flags.Changed("concern") {
		concern, err := flags.GetInt("concern")
		if err != nil {
			return domain.UserProfile{}, false, err
		}
		profile.ConcernScore = &concern
	}
	if flags.Changed("respiratory") {
		respiratory, err := flags.GetBool("respiratory")
		if err != nil {
			return domain.UserProfile{}, false, err
		}
		profile.HasRespiratoryIssue = &respiratory
	}

	return profile, privacy, profile.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
