package config

import "time"

// Default is the configuration used for anything config.yaml leaves out
func Default() *Config {
	return &Config{
		App: AppConfig{
			Service:     "cafebot",
			CafeName:    "One Shot Cafe",
			CafeAddress: "Street 608",
		},
		Log:  LogConfig{Level: "info"},
		HTTP: HTTPConfig{Port: 3000},
		Telegram: TelegramConfig{
			APIURL: "https://api.telegram.org",
		},
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "cafe",
			Database: "cafe",
			Path:     "data/orders.db",
		},
		Sessions: SessionsConfig{
			Backend: SessionsDatabase,
			LockTTL: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "cafebot:session:",
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
			User: "guest",
		},
		Notifications: NotificationsConfig{
			Mode:        NotifyDirect,
			Prefetch:    1,
			MaxAttempts: 5,
			RetryDelay:  5 * time.Second,
			MetricsPort: 9091,
		},
		Menu: defaultMenu(),
	}
}

func defaultMenu() []MenuCategory {
	return []MenuCategory{
		{Category: "Ice Drinks", Items: []MenuItem{
			{Name: "Ice Americano", Price: "1.75"},
			{Name: "Ice Latte", Price: "1.75"},
			{Name: "Ice Cappuccino", Price: "1.75"},
			{Name: "Ice Honey Black Coffee", Price: "1.75"},
			{Name: "Ice Honey Lemon Coffee", Price: "1.75"},
			{Name: "Ice Matcha Latte", Price: "1.75"},
			{Name: "Ice Honey Lemon Tea", Price: "1.75"},
			{Name: "Ice Green Tea", Price: "1.75"},
			{Name: "Ice Fresh Milk", Price: "1.75"},
			{Name: "Ice Strawberry Matcha", Price: "1.75"},
			{Name: "Ice Strawberry Chocolate", Price: "2.00"},
			{Name: "Ice Chocolate", Price: "2.00"},
		}},
		{Category: "Hot Drinks", Items: []MenuItem{
			{Name: "Hot Latte", Price: "1.75"},
			{Name: "Hot Chocolate", Price: "1.75"},
			{Name: "Hot Matcha", Price: "1.75"},
			{Name: "Hot Green Tea", Price: "1.75"},
			{Name: "Hot Cappuccino", Price: "1.75"},
			{Name: "Hot Americano", Price: "1.75"},
			{Name: "Hot Fresh Milk", Price: "1.75"},
		}},
		{Category: "Soda", Items: []MenuItem{
			{Name: "Kiwi Soda", Price: "1.75"},
			{Name: "Lime Soda", Price: "1.75"},
			{Name: "Lychee Soda", Price: "1.75"},
			{Name: "Strawberry Soda", Price: "1.75"},
			{Name: "Passion Soda", Price: "1.75"},
		}},
		{Category: "Smoothies", Items: []MenuItem{
			{Name: "Strawberry Smoothie", Price: "2.00"},
			{Name: "Passion Smoothie", Price: "2.00"},
			{Name: "Kiwi Smoothie", Price: "2.00"},
			{Name: "Lychee Smoothie", Price: "2.00"},
		}},
		{Category: "Frappe", Items: []MenuItem{
			{Name: "Cappuccino Frappe", Price: "2.00"},
			{Name: "Latte Frappe", Price: "2.00"},
			{Name: "Chocolate Frappe", Price: "2.00"},
			{Name: "Fresh Milk Frappe", Price: "2.00"},
		}},
	}
}
