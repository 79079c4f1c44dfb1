package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wleft/storefront/internal/api"
	"github.com/wleft/storefront/internal/cart"
	"github.com/wleft/storefront/internal/catalog"
	"github.com/wleft/storefront/internal/checkout"
	"github.com/wleft/storefront/internal/domain"
	"github.com/wleft/storefront/internal/payment"
)

type Config struct {
	APIBaseURL    string
	GatewayKey    string
	WidgetTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8081"),
		GatewayKey:    getEnv("GATEWAY_KEY", "rzp_test_Rvq0QBO7CE7YSy"),
		WidgetTimeout: 2 * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// consoleNotifier renders what the web UI would show as toasts.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) { fmt.Println("OK:", msg) }
func (consoleNotifier) Error(msg string)   { fmt.Println("ERROR:", msg) }
func (consoleNotifier) Info(msg string)    { fmt.Println("INFO:", msg) }

// terminalWidget is the injected payment widget for a terminal session. The
// buyer confirms or declines; anything else leaves the widget open until the
// orchestrator's timeout settles the attempt as abandoned.
type terminalWidget struct {
	in *bufio.Reader
}

func (w *terminalWidget) Open(opts payment.CheckoutOptions, onSuccess func(string), onFailure func(string)) error {
	fmt.Printf("%s | %s | %s %.2f | order %s\n",
		opts.Name, opts.Description, opts.Currency, float64(opts.Amount)/100, opts.OrderID)
	fmt.Print("confirm payment? [y/n]: ")
	go func() {
		line, err := w.in.ReadString('\n')
		if err != nil {
			return
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "y", "yes":
			onSuccess("pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14])
		case "n", "no":
			onFailure("cancelled by user")
		}
	}()
	return nil
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	client := api.NewClient(cfg.APIBaseURL, nil)
	cat := catalog.New(client)
	store := cart.NewStore(cat)
	notifier := consoleNotifier{}
	stdin := bufio.NewReader(os.Stdin)

	orchestrator := checkout.New(client, cat, payment.NewAdapter(&terminalWidget{in: stdin}), notifier, checkout.Config{
		Merchant: checkout.Merchant{
			Key:        cfg.GatewayKey,
			Name:       "WLeft Store",
			Image:      "https://cdn-icons-png.flaticon.com/512/3081/3081559.png",
			ThemeColor: "#2563EB",
			Prefill:    payment.Prefill{Name: "WLeft User", Email: "user@wleft.com", Contact: "9999999999"},
		},
		WidgetTimeout: cfg.WidgetTimeout,
	})

	if err := cat.Refresh(ctx); err != nil {
		log.Printf("initial catalog load failed: %v", err)
		notifier.Error("Could not load products. Please try again later.")
	}

	fmt.Println("commands: list | search <term> | refresh | qty <id> <delta> | add <id> | cart | remove <id> | buy <id> | quit")
	for {
		fmt.Print("> ")
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
			printProducts(cat.Products())
		case "search":
			printProducts(cat.Search(strings.Join(fields[1:], " ")))
		case "refresh":
			if err := cat.Refresh(ctx); err != nil {
				notifier.Error("Could not load products. Please try again later.")
			}
		case "qty":
			id, delta, ok := parseTwoInts(fields)
			if !ok {
				fmt.Println("usage: qty <id> <delta>")
				continue
			}
			q, err := store.ChangeQuantity(id, delta)
			if err != nil {
				notifier.Error(err.Error())
				continue
			}
			fmt.Printf("quantity for product %d is now %d\n", id, q)
		case "add":
			id, ok := parseID(fields)
			if !ok {
				continue
			}
			product, found := cat.ProductByID(id)
			if !found {
				notifier.Error("product not found")
				continue
			}
			got, truncated, err := store.AddItem(product, store.Desired(id))
			if err != nil {
				notifier.Error(err.Error())
				continue
			}
			if truncated {
				notifier.Info(fmt.Sprintf("Only %d in stock, cart adjusted", got))
			}
			notifier.Success(fmt.Sprintf("Added %s to cart!", product.Title))
		case "cart":
			printCart(store)
		case "remove":
			id, ok := parseID(fields)
			if !ok {
				continue
			}
			store.RemoveItem(id)
			notifier.Info("Removed from cart")
		case "buy":
			id, ok := parseID(fields)
			if !ok {
				continue
			}
			if _, err := orchestrator.BuyNow(ctx, id, store.Desired(id)); err != nil {
				log.Printf("checkout ended: %v", err)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

func printProducts(products []domain.Product) {
	for _, p := range products {
		status := fmt.Sprintf("%d in stock", p.Quantity)
		if p.Quantity == 0 {
			status = "SOLD OUT"
		}
		fmt.Printf("%3d  %-30s %10.2f  %s\n", p.ID, p.Title, p.Price, status)
	}
}

func printCart(store *cart.Store) {
	items := store.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, item := range items {
		fmt.Printf("%3d  %-30s x%d  %10.2f\n",
			item.Product.ID, item.Product.Title, item.Quantity, item.Product.Price*float64(item.Quantity))
	}
	count, total := store.Totals()
	fmt.Printf("total: %d items, %.2f\n", count, total)
}

func parseID(fields []string) (int64, bool) {
	if len(fields) < 2 {
		fmt.Println("product id required")
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Println("invalid product id")
		return 0, false
	}
	return id, true
}

func parseTwoInts(fields []string) (int64, int, bool) {
	if len(fields) < 3 {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	delta, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, false
	}
	return id, delta, true
}
