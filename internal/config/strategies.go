package config

type StrategiesConfig struct {
	Strategies []StrategyDef `yaml:"strategies"`
}

type StrategyDef struct {
	Name             string  `yaml:"name"`
	CookRatio        float64 `yaml:"cook_ratio"`
	FireManagement   bool    `yaml:"fire_management"`
	DepositFraction  float64 `yaml:"deposit_fraction"`
	PreferDoubleSpot bool    `yaml:"prefer_double_spot"`
	Note             string  `yaml:"note"`
}
