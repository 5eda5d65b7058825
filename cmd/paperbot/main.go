package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/arunisean/paperbot/internal/backtest"
	"github.com/arunisean/paperbot/internal/logger"
	"github.com/arunisean/paperbot/internal/market"
	"github.com/arunisean/paperbot/internal/monitoring"
	"github.com/arunisean/paperbot/internal/portfolio"
	"github.com/arunisean/paperbot/internal/strategy"
	"github.com/arunisean/paperbot/pkg/config"
	"github.com/arunisean/paperbot/pkg/reporting"
)

const defaultTimeFormat = "2006-01-02"

func main() {
	var (
		configFile = flag.String("config", "", "backtest config JSON file (overrides individual flags)")
		gridFile   = flag.String("grid-config", "", "grid config JSON file")
		symbol     = flag.String("symbol", "BTCUSDT", "trading symbol")
		interval   = flag.String("interval", "1h", "bar interval (e.g. 5m, 1h)")
		start      = flag.String("start", "", "start date (YYYY-MM-DD, default 30 days ago)")
		end        = flag.String("end", "", "end date (YYYY-MM-DD, default now)")
		balance    = flag.Float64("balance", 10000, "initial balance")
		feeRate    = flag.Float64("fee", 0.001, "fee rate per trade")
		dataSource = flag.String("data-source", config.DataSourceGenerated, "data source: generated, historical or replay")
		replayFile = flag.String("replay-file", "", "CSV file for the replay data source")
		seed       = flag.Int64("seed", 0, "generator seed (0 = time-based)")
		volatility = flag.Float64("volatility", 0.02, "generator volatility [0,1]")
		trend      = flag.String("trend", string(config.TrendSideways), "generator trend: bullish, bearish, sideways, random")
		basePrice  = flag.Float64("base-price", 30000, "generator base price")
		lower      = flag.Float64("grid-lower", 0, "grid lower bound (default base price -20%)")
		upper      = flag.Float64("grid-upper", 0, "grid upper bound (default base price +20%)")
		gridCount  = flag.Int("grid-count", 10, "number of grid intervals")
		investment = flag.Float64("grid-investment", 500, "investment per grid level")
		output     = flag.String("output", "", "output directory (default from OUTPUT_DIR)")
		writeJSON  = flag.Bool("json", false, "write result JSON file")
		writeCSV   = flag.Bool("csv", false, "write trades CSV file")
		writeXLSX  = flag.Bool("xlsx", false, "write Excel workbook")
		tradeLimit = flag.Int("trade-limit", 20, "number of trades to print (0 = all)")
		envFile    = flag.String("env", ".env", "env file to load")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("⚠️ No env file loaded (%s): %v", *envFile, err)
	}
	envCfg := config.Load()

	var health *monitoring.HealthChecker
	if envCfg.Monitoring.Enabled {
		go func() {
			if err := monitoring.StartMetricsServer(envCfg.Monitoring.PrometheusPort); err != nil {
				log.Printf("⚠️ Metrics server stopped: %v", err)
			}
		}()
		health = monitoring.NewHealthChecker()
		go func() {
			if err := serveHealth(envCfg.Monitoring.HealthPort, health); err != nil {
				log.Printf("⚠️ Health server stopped: %v", err)
			}
		}()
	}

	btCfg, err := buildBacktestConfig(*configFile, *symbol, *interval, *start, *end,
		*balance, *feeRate, *dataSource, *volatility, *trend, *basePrice)
	if err != nil {
		log.Fatalf("❌ Invalid backtest configuration: %v", err)
	}

	gridCfg, err := buildGridConfig(*gridFile, *lower, *upper, *gridCount, *investment, btCfg.Generator.BasePrice)
	if err != nil {
		log.Fatalf("❌ Invalid grid configuration: %v", err)
	}

	generator := market.NewGenerator()
	if *seed != 0 {
		generator = market.NewGeneratorWithSeed(*seed)
	}
	engine := backtest.NewEngine(generator)

	if btCfg.DataSource == config.DataSourceReplay {
		if *replayFile == "" {
			log.Fatalf("❌ Replay data source requires -replay-file")
		}
		bars, err := market.LoadCSV(*replayFile, btCfg.Symbols[0])
		if err != nil {
			log.Fatalf("❌ Failed to load replay data: %v", err)
		}
		engine.WithReplayData(bars)
		log.Printf("📂 Loaded %d replay bars from %s", len(bars), filepath.Base(*replayFile))
	}

	port, err := portfolio.Open("paperbot", btCfg.InitialBalance, "USDT")
	if err != nil {
		log.Fatalf("❌ Failed to open portfolio: %v", err)
	}

	fileLog, err := logger.NewLogger(btCfg.Symbols[0], *interval)
	if err != nil {
		log.Printf("⚠️ File logging disabled: %v", err)
	} else {
		defer fileLog.Close()
		port.SetObserver(fileLog.LogTrade)
	}

	gridStrat, err := strategy.NewGridStrategy(*gridCfg, btCfg.Symbols[0], port, btCfg.FeeRate)
	if err != nil {
		log.Fatalf("❌ Failed to build grid strategy: %v", err)
	}

	log.Printf("🚀 Running grid backtest: %s %s, %s → %s",
		btCfg.Symbols[0], *interval,
		btCfg.StartDate.Format(defaultTimeFormat), btCfg.EndDate.Format(defaultTimeFormat))

	result, err := engine.Run(*btCfg, gridStrat)
	if err != nil {
		if health != nil {
			health.RecordError(err.Error())
		}
		log.Fatalf("❌ Backtest failed: %v", err)
	}
	if health != nil {
		health.RecordRun(result.EndBalance)
	}

	console := reporting.NewDefaultConsoleReporter()
	console.OutputResults(result)
	console.OutputTrades(result, *tradeLimit)

	outDir := envCfg.Output.Dir
	if *output != "" {
		outDir = *output
	}
	stamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_%s_%s", btCfg.Symbols[0], *interval, stamp)

	if *writeJSON {
		path := filepath.Join(outDir, base+".json")
		if err := reporting.WriteResultJSON(result, path); err != nil {
			log.Printf("❌ Failed to write JSON result: %v", err)
		} else {
			log.Printf("💾 Result written to %s", path)
		}
	}
	if *writeCSV {
		path := filepath.Join(outDir, base+"_trades.csv")
		if err := reporting.WriteTradesCSV(result, path); err != nil {
			log.Printf("❌ Failed to write trades CSV: %v", err)
		} else {
			log.Printf("💾 Trades written to %s", path)
		}
	}
	if *writeXLSX {
		path := filepath.Join(outDir, base+".xlsx")
		if err := reporting.NewDefaultExcelReporter().WriteResultXLSX(result, path); err != nil {
			log.Printf("❌ Failed to write Excel workbook: %v", err)
		} else {
			log.Printf("💾 Workbook written to %s", path)
		}
	}
}

// buildBacktestConfig assembles the run config from a JSON file or flags.
func buildBacktestConfig(configFile, symbol, interval, start, end string,
	balance, feeRate float64, dataSource string,
	volatility float64, trend string, basePrice float64) (*config.BacktestConfig, error) {

	if configFile != "" {
		return config.LoadBacktestConfig(configFile)
	}

	intervalDur, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("invalid interval %q: %w", interval, err)
	}

	endDate := time.Now().UTC().Truncate(intervalDur)
	if end != "" {
		endDate, err = time.Parse(defaultTimeFormat, end)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", end, err)
		}
	}
	startDate := endDate.AddDate(0, 0, -30)
	if start != "" {
		startDate, err = time.Parse(defaultTimeFormat, start)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", start, err)
		}
	}

	cfg := &config.BacktestConfig{
		StartDate:      startDate,
		EndDate:        endDate,
		Symbols:        []string{symbol},
		Interval:       intervalDur,
		InitialBalance: balance,
		FeeRate:        feeRate,
		DataSource:     dataSource,
		Generator: config.GeneratorConfig{
			Volatility:   volatility,
			Trend:        config.Trend(trend),
			BasePrice:    basePrice,
			IncludeNoise: true,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildGridConfig assembles the grid config from a JSON file or flags.
// Unset bounds default to ±20% around the generator base price.
func buildGridConfig(gridFile string, lower, upper float64, count int, investment, basePrice float64) (*config.GridConfig, error) {
	if gridFile != "" {
		return config.LoadGridConfig(gridFile)
	}

	if lower <= 0 {
		lower = basePrice * 0.8
	}
	if upper <= 0 {
		upper = basePrice * 1.2
	}

	cfg := &config.GridConfig{
		LowerBound:        lower,
		UpperBound:        upper,
		GridCount:         count,
		InvestmentPerGrid: investment,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		return err
	}
	return godotenv.Load(envFile)
}
