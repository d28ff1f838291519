package models

// Service is a bookable cleaning service shown on the storefront.
type Service struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	BasePrice       float64  `json:"basePrice"`
	Icon            string   `json:"icon"`
	Image           string   `json:"image"`
	IsActive        bool     `json:"isActive"`
	IsPopular       bool     `json:"isPopular"`
	SortOrder       int      `json:"sortOrder"`
	Features        []string `json:"features"`
}

func ServiceFromRaw(r Raw) Service {
	return Service{
		ID:              r.GetString("id"),
		Name:            r.GetString("name"),
		Slug:            r.GetString("slug"),
		Description:     r.GetString("description"),
		LongDescription: r.GetString("longDescription"),
		BasePrice:       r.GetFloat("basePrice"),
		Icon:            r.GetString("icon"),
		Image:           r.GetString("image"),
		IsActive:        r.GetBool("isActive"),
		IsPopular:       r.GetBool("isPopular"),
		SortOrder:       r.GetInt("sortOrder"),
		Features:        r.GetStrings("features"),
	}
}

// Addon is an optional extra applied to a quote.
type Addon struct {
	ID        string  `json:"id"`
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	IsActive  bool    `json:"isActive"`
	SortOrder int     `json:"sortOrder"`
}

func AddonFromRaw(r Raw) Addon {
	return Addon{
		ID:        r.GetString("id"),
		Key:       r.GetString("key"),
		Name:      r.GetString("name"),
		Price:     r.GetFloat("price"),
		IsActive:  r.GetBool("isActive"),
		SortOrder: r.GetInt("sortOrder"),
	}
}

type FAQ struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Category  string `json:"category"`
	IsActive  bool   `json:"isActive"`
	SortOrder int    `json:"sortOrder"`
}

func FAQFromRaw(r Raw) FAQ {
	return FAQ{
		ID:        r.GetString("id"),
		Question:  r.GetString("question"),
		Answer:    r.GetString("answer"),
		Category:  r.GetString("category"),
		IsActive:  r.GetBool("isActive"),
		SortOrder: r.GetInt("sortOrder"),
	}
}

type Testimonial struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Quote      string  `json:"quote"`
	Rating     float64 `json:"rating"`
	IsFeatured bool    `json:"isFeatured"`
	SortOrder  int     `json:"sortOrder"`
}

func TestimonialFromRaw(r Raw) Testimonial {
	return Testimonial{
		ID:         r.GetString("id"),
		Author:     r.GetString("author"),
		Quote:      r.GetString("quote"),
		Rating:     r.GetFloat("rating"),
		IsFeatured: r.GetBool("isFeatured"),
		SortOrder:  r.GetInt("sortOrder"),
	}
}

// Location is a service area office.
type Location struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	IsPrimary  bool   `json:"isPrimary"`
	IsActive   bool   `json:"isActive"`
	SortOrder  int    `json:"sortOrder"`
}

func LocationFromRaw(r Raw) Location {
	return Location{
		ID:         r.GetString("id"),
		Name:       r.GetString("name"),
		City:       r.GetString("city"),
		Province:   r.GetString("province"),
		Address:    r.GetString("address"),
		PostalCode: r.GetString("postalCode"),
		Country:    r.GetString("country"),
		Phone:      r.GetString("phone"),
		Email:      r.GetString("email"),
		IsPrimary:  r.GetBool("isPrimary"),
		IsActive:   r.GetBool("isActive"),
		SortOrder:  r.GetInt("sortOrder"),
	}
}

// Setting is one key/value site setting.
type Setting struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Category    string `json:"category"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func SettingFromRaw(r Raw) Setting {
	return Setting{
		ID:          r.GetString("id"),
		Key:         r.GetString("key"),
		Value:       r["value"],
		Category:    r.GetString("category"),
		Label:       r.GetString("label"),
		Description: r.GetString("description"),
	}
}

// CalculatorSetting is one numeric pricing parameter for the quote
// calculator, editable from the admin panel.
type CalculatorSetting struct {
	ID          string  `json:"id" yaml:"-"`
	Key         string  `json:"key" yaml:"key"`
	Label       string  `json:"label" yaml:"label"`
	Value       float64 `json:"value" yaml:"value"`
	Category    string  `json:"category" yaml:"category"` // base_prices, space_rates, addons, discounts
	Description string  `json:"description" yaml:"description"`
	SortOrder   int     `json:"sortOrder" yaml:"sort_order"`
}

func CalculatorSettingFromRaw(r Raw) CalculatorSetting {
	return CalculatorSetting{
		ID:          r.GetString("id"),
		Key:         r.GetString("key"),
		Label:       r.GetString("label"),
		Value:       r.GetFloat("value"),
		Category:    r.GetString("category"),
		Description: r.GetString("description"),
		SortOrder:   r.GetInt("sortOrder"),
	}
}

// CompanyInfo is assembled from settings with explicit defaults.
type CompanyInfo struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Tagline   string `json:"tagline"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	TollFree  string `json:"tollFree"`
	Website   string `json:"website"`

	SocialFacebook  string `json:"socialFacebook"`
	SocialInstagram string `json:"socialInstagram"`
	SocialTwitter   string `json:"socialTwitter"`
	SocialLinkedIn  string `json:"socialLinkedin"`

	HoursWeekdays string `json:"hoursWeekdays"`
	HoursSaturday string `json:"hoursSaturday"`
	HoursSunday   string `json:"hoursSunday"`
}
