package ports

import "context"

type DashboardStats struct {
	TotalUsers         int64                `json:"totalUsers"`
	TotalDoctors       int64                `json:"totalDoctors"`
	TotalTests         int64                `json:"totalTests"`
	TotalAppointments  int64                `json:"totalAppointments"`
	TotalPayments      int64                `json:"totalPayments"`
	MonthlyRevenue     float64              `json:"monthlyRevenue"`
	RecentAppointments []*AppointmentDetail `json:"recentAppointments"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type SupportService interface {
	Contact(ctx context.Context, in ContactInput) error
}
