package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// commissionFile mirrors commission.yml:
//
//	commission:
//	  platformCommissionRate: 0.02
//	  stripeFeeRate: 0.029
//	  stripeFeeFixed: 0.30
type commissionFile struct {
	PlatformCommissionRate float64 `mapstructure:"platformCommissionRate"`
	StripeFeeRate          float64 `mapstructure:"stripeFeeRate"`
	StripeFeeFixed         float64 `mapstructure:"stripeFeeFixed"`
}

// CommissionConfigHolder serves the current commission settings snapshot.
// Readers get a copy; a reload swaps the whole value.
type CommissionConfigHolder struct {
	current atomic.Value // holds revenuedomain.CommissionSettings
}

func NewCommissionConfigHolder(cfg Config, log *zap.Logger) (*CommissionConfigHolder, error) {
	log = log.Named("config.commission")
	v := viper.New()

	if cfg.CommissionConfigPath != "" {
		v.SetConfigFile(cfg.CommissionConfigPath)
	} else {
		v.SetConfigName("commission")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/lankaconnect")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LANKACONNECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := revenuedomain.DefaultCommissionSettings()
	v.SetDefault("commission.platformCommissionRate", defaults.PlatformCommissionRate.InexactFloat64())
	v.SetDefault("commission.stripeFeeRate", defaults.StripeFeeRate.InexactFloat64())
	v.SetDefault("commission.stripeFeeFixed", defaults.StripeFeeFixed.InexactFloat64())

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfg.CommissionConfigPath != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
		log.Info("commission config not found, using defaults")
	}

	settings, err := readCommission(v)
	if err != nil {
		return nil, err
	}

	holder := &CommissionConfigHolder{}
	holder.current.Store(settings)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := readCommission(v)
			if err != nil {
				log.Warn("invalid commission config ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("commission config reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

// NewStaticCommissionHolder serves fixed settings.
func NewStaticCommissionHolder(settings revenuedomain.CommissionSettings) *CommissionConfigHolder {
	holder := &CommissionConfigHolder{}
	holder.current.Store(settings)
	return holder
}

func (h *CommissionConfigHolder) Current() revenuedomain.CommissionSettings {
	return h.current.Load().(revenuedomain.CommissionSettings)
}

func readCommission(v *viper.Viper) (revenuedomain.CommissionSettings, error) {
	var raw commissionFile
	if err := v.UnmarshalKey("commission", &raw); err != nil {
		return revenuedomain.CommissionSettings{}, err
	}
	settings := revenuedomain.CommissionSettings{
		PlatformCommissionRate: decimal.NewFromFloat(raw.PlatformCommissionRate),
		StripeFeeRate:          decimal.NewFromFloat(raw.StripeFeeRate),
		StripeFeeFixed:         decimal.NewFromFloat(raw.StripeFeeFixed),
	}
	if err := settings.Validate(); err != nil {
		return revenuedomain.CommissionSettings{}, err
	}
	return settings, nil
}
