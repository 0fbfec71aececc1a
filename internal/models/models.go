package models

import (
	"time"
)

type EstablishmentType string

const (
	EstablishmentRestaurant    EstablishmentType = "restaurant"
	EstablishmentBeverageDepot EstablishmentType = "beverage_depot"
	EstablishmentGroceryStore  EstablishmentType = "grocery_store"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderValidated OrderStatus = "validated"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type NotificationType string

const (
	NotificationNewOrder       NotificationType = "new_order"
	NotificationOrderValidated NotificationType = "order_validated"
	NotificationOrderCompleted NotificationType = "order_completed"
)

type Establishment struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string            `gorm:"not null"                 json:"name"`
	Type      EstablishmentType `gorm:"not null"                 json:"type"`
	OwnerID   uint              `gorm:"index;not null"           json:"owner_id"`
	CreatedAt time.Time         `json:"created_at"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Token     string    `gorm:"unique;not null"     json:"token"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

type UserRole struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"                     json:"id"`
	UserID          uint      `gorm:"index:idx_user_establishment,unique;not null" json:"user_id"`
	EstablishmentID uint      `gorm:"index:idx_user_establishment,unique;not null" json:"establishment_id"`
	Role            string    `gorm:"not null;default:staff"                       json:"role"`
	CreatedAt       time.Time `json:"created_at"`
}

type Table struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    int       `gorm:"unique;not null"          json:"table_number"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	CategoryID  uint      `gorm:"index;not null"           json:"category_id"`
	IsAvailable bool      `json:"is_available"`
	Emoji       string    `json:"emoji"`
	ImageURL    string    `json:"image_url"`
	Options     []Option  `gorm:"foreignKey:MenuItemID"    json:"options,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Option struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	MenuItemID       uint           `gorm:"index;not null"           json:"menu_item_id"`
	Name             string         `gorm:"not null"                 json:"name"`
	IsMultipleChoice bool           `gorm:"default:false"            json:"is_multiple_choice"`
	Choices          []OptionChoice `gorm:"foreignKey:OptionID"      json:"choices,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type OptionChoice struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OptionID  uint      `gorm:"index;not null"           json:"option_id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Price     float64   `gorm:"default:0"                json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID    uint        `gorm:"index;not null"           json:"table_id"`
	Table      *Table      `gorm:"foreignKey:TableID"       json:"table,omitempty"`
	Status     OrderStatus `gorm:"not null;default:pending" json:"status"`
	TotalPrice float64     `gorm:"not null"                 json:"total_price"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"       json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// OrderItem.Price is the menu price at order time. It is written once at
// submission and never recomputed from the current menu.
type OrderItem struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    uint              `gorm:"index;not null"           json:"order_id"`
	MenuItemID uint              `gorm:"not null"                 json:"menu_item_id"`
	MenuItem   *MenuItem         `gorm:"foreignKey:MenuItemID"    json:"menu_item,omitempty"`
	Quantity   uint              `gorm:"default:1"                json:"quantity"`
	Price      float64           `gorm:"not null"                 json:"price"`
	Options    []OrderItemOption `gorm:"foreignKey:OrderItemID"   json:"options,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type OrderItemOption struct {
	ID             uint          `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderItemID    uint          `gorm:"index;not null"            json:"order_item_id"`
	OptionChoiceID uint          `gorm:"not null"                  json:"option_choice_id"`
	Choice         *OptionChoice `gorm:"foreignKey:OptionChoiceID" json:"choice,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type Notification struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   *uint            `gorm:"index"                    json:"order_id"`
	Type      NotificationType `gorm:"not null"                 json:"type"`
	Message   string           `gorm:"not null"                 json:"message"`
	IsRead    bool             `gorm:"default:false;index"      json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

type BeverageType struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EstablishmentID uint      `gorm:"index;not null"           json:"establishment_id"`
	Name            string    `gorm:"not null"                 json:"name"`
	UnitPrice       float64   `gorm:"default:0"                json:"unit_price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Crate struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BeverageTypeID  uint      `gorm:"index;not null"           json:"beverage_type_id"`
	BottlesPerCrate int       `gorm:"default:12"               json:"bottles_per_crate"`
	DepositPrice    float64   `gorm:"default:0"                json:"deposit_price"`
	StockQuantity   int       `gorm:"default:0"                json:"stock_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type GroceryProduct struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EstablishmentID uint      `gorm:"index;not null"           json:"establishment_id"`
	Name            string    `gorm:"not null"                 json:"name"`
	Barcode         string    `gorm:"index"                    json:"barcode"`
	Price           float64   `gorm:"default:0"                json:"price"`
	StockQuantity   int       `gorm:"default:0"                json:"stock_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
