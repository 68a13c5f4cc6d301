package entity

// LocalizedInput локализованная строка из запроса
// Ru обязателен, остальные языки подставляются из Ru при создании
type LocalizedInput struct {
	Ru string `json:"ru" validate:"required"`
	Tm string `json:"tm" validate:"omitempty"`
	En string `json:"en" validate:"omitempty"`
}

// Localized превращает ввод в локализованную строку с fallback
func (in LocalizedInput) Localized() Localized {
	return NewLocalized(in.Ru, in.Tm, in.En)
}

type CreateCategoryRequest struct {
	Name     LocalizedInput `json:"name" validate:"required"`
	URL      string         `json:"url" validate:"required,slug"`
	Parent   string         `json:"parent" validate:"omitempty,len=24,hexadecimal"`
	Position *int           `json:"position" validate:"required,min=1"`
}

type UpdateCategoryRequest struct {
	Name     *LocalizedInput `json:"name" validate:"omitempty"`
	URL      string          `json:"url" validate:"omitempty,slug"`
	Parent   *string         `json:"parent" validate:"omitempty"` // "" снимает родителя
	Position *int            `json:"position" validate:"omitempty,min=1"`
}

type CreateSubcategoryRequest struct {
	Name     LocalizedInput `json:"name" validate:"required"`
	URL      string         `json:"url" validate:"required,slug"`
	Category string         `json:"category" validate:"required,len=24,hexadecimal"`
}

type UpdateSubcategoryRequest struct {
	Name     *LocalizedInput `json:"name" validate:"omitempty"`
	URL      string          `json:"url" validate:"omitempty,slug"`
	Category string          `json:"category" validate:"omitempty,len=24,hexadecimal"`
}

type SpecInput struct {
	Type  LocalizedInput `json:"type" validate:"required"`
	Value LocalizedInput `json:"value" validate:"required"`
}

type CreateProductRequest struct {
	Name             LocalizedInput `json:"name" validate:"required"`
	Price            *float64       `json:"price" validate:"required,gte=0"`
	Stock            int            `json:"stock" validate:"gte=0"`
	ShortDescription LocalizedInput `json:"short_description" validate:"required"`
	FullDescription  LocalizedInput `json:"full_description" validate:"required"`
	Specifications   []SpecInput    `json:"specifications" validate:"omitempty,dive"`
	RelatedProducts  []string       `json:"related_products" validate:"omitempty,max=4,dive,len=24,hexadecimal"`
	Categories       []string       `json:"categories" validate:"required,min=1,dive,len=24,hexadecimal"`
	Subcategories    []string       `json:"subcategories" validate:"omitempty,dive,len=24,hexadecimal"`
}

type UpdateProductRequest struct {
	Name             *LocalizedInput `json:"name" validate:"omitempty"`
	Price            *float64        `json:"price" validate:"omitempty,gte=0"`
	Stock            *int            `json:"stock" validate:"omitempty,gte=0"`
	ShortDescription *LocalizedInput `json:"short_description" validate:"omitempty"`
	FullDescription  *LocalizedInput `json:"full_description" validate:"omitempty"`
	Specifications   []SpecInput     `json:"specifications" validate:"omitempty,dive"`
	RelatedProducts  []string        `json:"related_products" validate:"omitempty,max=4,dive,len=24,hexadecimal"`
	Categories       []string        `json:"categories" validate:"omitempty,min=1,dive,len=24,hexadecimal"`
	Subcategories    []string        `json:"subcategories" validate:"omitempty,dive,len=24,hexadecimal"`
}

type CreateSectionRequest struct {
	Name     LocalizedInput `json:"name" validate:"required"`
	Products []string       `json:"products" validate:"omitempty,max=8,dive,len=24,hexadecimal"`
	Position *int           `json:"position" validate:"required,min=1"`
}

type UpdateSectionRequest struct {
	Name     *LocalizedInput `json:"name" validate:"omitempty"`
	Products []string        `json:"products" validate:"omitempty,max=8,dive,len=24,hexadecimal"`
	Position *int            `json:"position" validate:"omitempty,min=1"`
}

type CreateBannerRequest struct {
	Name      string `json:"name" validate:"required"`
	URL       string `json:"url" validate:"omitempty,url"`
	Placement string `json:"placement" validate:"required,oneof=main promo footer"`
}

type UpdateBannerRequest struct {
	Name string `json:"name" validate:"omitempty"`
	URL  string `json:"url" validate:"omitempty,url"`
}

type CreateSettingsRequest struct {
	ExchangeRate *float64 `json:"exchange_rate" validate:"required,gte=0"`
}

type UpdateSettingsRequest struct {
	ExchangeRate *float64 `json:"exchange_rate" validate:"required,gte=0"`
}

type OrderItemInput struct {
	ProductID string   `json:"product_id" validate:"required,len=24,hexadecimal"`
	Name      string   `json:"name" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
	UnitPrice *float64 `json:"unit_price" validate:"required,gte=0"`
}

type CreateOrderRequest struct {
	Location   string           `json:"location" validate:"required"`
	IsPickup   bool             `json:"is_pickup"`
	Address    string           `json:"address" validate:"required_unless=IsPickup true"`
	Name       string           `json:"name" validate:"required"`
	Phone      string           `json:"phone" validate:"required"`
	Email      string           `json:"email" validate:"omitempty,email"`
	Comment    string           `json:"comment"`
	Items      []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	TotalPrice *float64         `json:"total_price" validate:"required,gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin editor"`
}

type UpdateUserRequest struct {
	NewPassword string `json:"new_password" validate:"omitempty,min=8"`
	Role        string `json:"role" validate:"omitempty,oneof=admin editor"`
}

type ErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message,omitempty"`
	MissingIDs []string `json:"missing_ids,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageMeta метаданные пагинации списков админки
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type ListResponse struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// HomePageResponse данные главной страницы витрины
type HomePageResponse struct {
	MainBanner      []Banner          `json:"main_banner"`
	PromoBanner     []Banner          `json:"promo_banner"`
	FooterBanner    []Banner          `json:"footer_banner"`
	ProductsSection []HomePageSection `json:"products_section"`
}

type HomePageSection struct {
	ID       string    `json:"id"`
	Name     Localized `json:"name"`
	Position int       `json:"position"`
	Products []Product `json:"products"`
}

// CategoryProductsResponse товары категории и ее потомков
type CategoryProductsResponse struct {
	Category CategorySummary `json:"category"`
	Products []Product       `json:"products"`
}

type CategorySummary struct {
	ID   string    `json:"id"`
	Name Localized `json:"name"`
	URL  string    `json:"url"`
}

// ProductPageResponse карточка товара со связанными товарами
type ProductPageResponse struct {
	Product Product   `json:"product"`
	Related []Product `json:"related_products"`
}

type SearchResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SubcategoryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
