package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ShopDefaults are the fallback settings applied to a shop that has not
// stored its own work-order or pricing configuration yet.
type ShopDefaults struct {
	ShopSupplyPercentage  float64        `mapstructure:"shopSupplyPercentage"`
	ChargeForCoresDefault bool           `mapstructure:"chargeForCoresDefault"`
	PricingMode           string         `mapstructure:"pricingMode"`
	Search                SearchDefaults `mapstructure:"search"`
}

type SearchDefaults struct {
	DefaultLimit    int `mapstructure:"defaultLimit"`
	MaxLimit        int `mapstructure:"maxLimit"`
	LegacyScanLimit int `mapstructure:"legacyScanLimit"`
}

func DefaultShopDefaults() ShopDefaults {
	return ShopDefaults{
		ShopSupplyPercentage:  5,
		ChargeForCoresDefault: false,
		PricingMode:           "margin",
		Search: SearchDefaults{
			DefaultLimit:    20,
			MaxLimit:        50,
			LegacyScanLimit: 500,
		},
	}
}

type ShopDefaultsHolder struct {
	current atomic.Value // holds ShopDefaults
}

// NewStaticShopDefaults returns a holder that never reloads.
func NewStaticShopDefaults(d ShopDefaults) *ShopDefaultsHolder {
	holder := &ShopDefaultsHolder{}
	holder.current.Store(d)
	return holder
}

func NewShopDefaultsHolder(cfg Config) (*ShopDefaultsHolder, error) {
	v := viper.New()

	if cfg.ShopDefaultsPath != "" {
		v.SetConfigFile(cfg.ShopDefaultsPath)
	} else {
		v.SetConfigName("shopcore")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/shopcore")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SHOPCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultShopDefaults()
	v.SetDefault("shop.shopSupplyPercentage", defaults.ShopSupplyPercentage)
	v.SetDefault("shop.chargeForCoresDefault", defaults.ChargeForCoresDefault)
	v.SetDefault("shop.pricingMode", defaults.PricingMode)
	v.SetDefault("shop.search.defaultLimit", defaults.Search.DefaultLimit)
	v.SetDefault("shop.search.maxLimit", defaults.Search.MaxLimit)
	v.SetDefault("shop.search.legacyScanLimit", defaults.Search.LegacyScanLimit)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfg.ShopDefaultsPath != "" {
			return nil, err
		}
		fileLoaded = false
	}

	current, err := decodeShopDefaults(v)
	if err != nil {
		return nil, err
	}
	if err := validateShopDefaults(current); err != nil {
		return nil, err
	}

	holder := &ShopDefaultsHolder{}
	holder.current.Store(current)

	if fileLoaded {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeShopDefaults(v)
			if err != nil {
				log.Printf("[shop-defaults] reload failed: %v", err)
				return
			}
			if err := validateShopDefaults(updated); err != nil {
				log.Printf("[shop-defaults] invalid config ignored: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[shop-defaults] reloaded from %s", e.Name)
		})
	}

	return holder, nil
}

func (h *ShopDefaultsHolder) Get() ShopDefaults {
	if h == nil {
		return DefaultShopDefaults()
	}
	value, ok := h.current.Load().(ShopDefaults)
	if !ok {
		return DefaultShopDefaults()
	}
	return value
}

func decodeShopDefaults(v *viper.Viper) (ShopDefaults, error) {
	var wrapper struct {
		Shop ShopDefaults `mapstructure:"shop"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return ShopDefaults{}, err
	}
	return wrapper.Shop, nil
}

func validateShopDefaults(d ShopDefaults) error {
	if d.ShopSupplyPercentage < 0 || d.ShopSupplyPercentage > 100 {
		return errors.New("shop.shopSupplyPercentage must be between 0 and 100")
	}
	switch strings.ToLower(strings.TrimSpace(d.PricingMode)) {
	case "margin", "markup":
	default:
		return errors.New("shop.pricingMode must be margin or markup")
	}
	if d.Search.DefaultLimit <= 0 || d.Search.MaxLimit <= 0 {
		return errors.New("shop.search limits must be positive")
	}
	if d.Search.DefaultLimit > d.Search.MaxLimit {
		return errors.New("shop.search.defaultLimit cannot exceed maxLimit")
	}
	if d.Search.LegacyScanLimit < 0 {
		return errors.New("shop.search.legacyScanLimit cannot be negative")
	}
	return nil
}
