package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wleft/storefront/internal/api"
	"github.com/wleft/storefront/internal/catalog"
	"github.com/wleft/storefront/internal/inventory"
	"github.com/wleft/storefront/internal/poller"
	"github.com/wleft/storefront/internal/profile"
)

type Config struct {
	APIBaseURL   string
	PollInterval time.Duration
	RedisAddr    string
	OperatorID   string
}

func loadConfig() *Config {
	interval := poller.DefaultInterval
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}
	return &Config{
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8081"),
		PollInterval: interval,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		OperatorID:   getEnv("OPERATOR_ID", "boss"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) { fmt.Println("OK:", msg) }
func (consoleNotifier) Error(msg string)   { fmt.Println("ERROR:", msg) }
func (consoleNotifier) Info(msg string)    { fmt.Println("INFO:", msg) }

func main() {
	cfg := loadConfig()
	notifier := consoleNotifier{}

	client := api.NewClient(cfg.APIBaseURL, nil)
	cat := catalog.New(client)
	watcher := inventory.NewWatcher(notifier)
	p := poller.New(cat, cfg.PollInterval, watcher.Inspect)
	restock := poller.NewRestockAction(client, p)

	var profiles profile.Store
	if cfg.RedisAddr != "" {
		profiles = profile.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the poller lives for exactly as long as the dashboard is up
	go p.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
		os.Exit(0)
	}()

	stdin := bufio.NewReader(os.Stdin)
	fmt.Println("commands: list | stats | restock <id> | add | profile | profile set | quit")
	for {
		fmt.Print("admin> ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list":
			for _, pr := range cat.Products() {
				fmt.Printf("%3d  %-30s %10.2f  %d units\n", pr.ID, pr.Title, pr.Price, pr.Quantity)
			}
		case "stats":
			stats := inventory.Compute(cat.Products())
			fmt.Printf("total units: %d\ntotal asset value: %.2f\nlow stock alerts: %d (threshold %d)\n",
				stats.TotalUnits, stats.TotalValue, stats.LowStockCount, inventory.LowStockThreshold)
		case "restock":
			if len(fields) < 2 {
				fmt.Println("usage: restock <id>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Println("invalid product id")
				continue
			}
			if err := restock.Run(ctx, id); err != nil {
				notifier.Error("Failed to restock: " + err.Error())
				continue
			}
			notifier.Success("Stock updated successfully!")
		case "add":
			addProduct(ctx, client, notifier, stdin, p)
		case "profile":
			handleProfile(ctx, profiles, cfg.OperatorID, notifier, stdin, fields)
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

func addProduct(ctx context.Context, client *api.Client, notifier consoleNotifier, stdin *bufio.Reader, p *poller.Poller) {
	in := api.ProductInput{Quantity: 10}
	in.Title = prompt(stdin, "title: ")
	price, err := strconv.ParseFloat(prompt(stdin, "price: "), 64)
	if err != nil {
		notifier.Error("invalid price")
		return
	}
	in.Price = price
	in.Image = prompt(stdin, "image url: ")
	in.Description = prompt(stdin, "description: ")

	if _, err := client.AddProduct(ctx, in); err != nil {
		notifier.Error("Failed to add product: " + err.Error())
		return
	}
	notifier.Success("Product Added Successfully!")
	if err := p.RefreshNow(ctx); err != nil {
		log.Printf("refresh after add failed: %v", err)
	}
}

func handleProfile(ctx context.Context, profiles profile.Store, operatorID string, notifier consoleNotifier, stdin *bufio.Reader, fields []string) {
	if profiles == nil {
		notifier.Info("profile storage not configured (set REDIS_ADDR)")
		return
	}
	if len(fields) > 1 && fields[1] == "set" {
		p := &profile.Profile{
			Name:     prompt(stdin, "name: "),
			Email:    prompt(stdin, "email: "),
			Location: prompt(stdin, "location: "),
		}
		if err := profiles.Save(ctx, operatorID, p); err != nil {
			notifier.Error("Failed to save profile: " + err.Error())
			return
		}
		notifier.Success("Profile Updated!")
		return
	}

	p, err := profiles.Get(ctx, operatorID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		notifier.Info("no profile saved yet")
		return
	}
	if err != nil {
		notifier.Error("Failed to load profile: " + err.Error())
		return
	}
	fmt.Printf("name: %s\nemail: %s\nlocation: %s\n", p.Name, p.Email, p.Location)
}

func prompt(stdin *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}
