package dashboard

type GeneralStatsResponse struct {
	TotalSellers               int64   `json:"total_sellers"`
	TotalSales                 int64   `json:"total_sales"`
	TotalSalesAmount           float64 `json:"total_sales_amount"`
	FormattedTotalSalesAmount  string  `json:"formatted_total_sales_amount"`
	TotalCommissions           float64 `json:"total_commissions"`
	FormattedTotalCommissions  string  `json:"formatted_total_commissions"`
	AverageSaleAmount          float64 `json:"average_sale_amount"`
	FormattedAverageSaleAmount string  `json:"formatted_average_sale_amount"`
}

// PeriodStatsResponse is used for both today and this month
type PeriodStatsResponse struct {
	SalesCount           int64   `json:"sales_count"`
	SalesAmount          float64 `json:"sales_amount"`
	FormattedSalesAmount string  `json:"formatted_sales_amount"`
}

type TopSellerResponse struct {
	ID                       int64   `json:"id"`
	Name                     string  `json:"name"`
	Email                    string  `json:"email"`
	SalesCount               int64   `json:"sales_count"`
	TotalAmount              float64 `json:"total_amount"`
	FormattedTotalAmount     string  `json:"formatted_total_amount"`
	TotalCommission          float64 `json:"total_commission"`
	FormattedTotalCommission string  `json:"formatted_total_commission"`
}

type MonthlySalesResponse struct {
	Month           string  `json:"month"`      // 2006-01
	MonthName       string  `json:"month_name"` // Jan 2006
	SalesCount      int64   `json:"sales_count"`
	SalesAmount     float64 `json:"sales_amount"`
	FormattedAmount string  `json:"formatted_amount"`
}

// DashboardResponse combines all dashboard data
type DashboardResponse struct {
	General      GeneralStatsResponse   `json:"general"`
	Today        PeriodStatsResponse    `json:"today"`
	ThisMonth    PeriodStatsResponse    `json:"this_month"`
	TopSellers   []TopSellerResponse    `json:"top_sellers"`
	SalesByMonth []MonthlySalesResponse `json:"sales_by_month"`
}
