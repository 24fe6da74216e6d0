package usecase

import (
	"context"
	"strings"

	"grocery/internal/auth"
	repo "grocery/internal/repository"
)

// 販売レポート。読み取り集計だけで何も書かない
type ReportUsecase struct {
	saleRepo repo.SaleRepository
}

func NewReportUsecase(saleRepo repo.SaleRepository) *ReportUsecase {
	return &ReportUsecase{saleRepo: saleRepo}
}

type SalesReportInput struct {
	Filter   string // "" | "most_sold" | "least_sold" | "category"
	Category string
}

// マネージャーだけが見られる。
// 販売実績ゼロの商品も total_quantity_sold=0 で必ず入る
func (u *ReportUsecase) SalesReport(ctx context.Context, p auth.Principal, in SalesReportInput) ([]repo.SalesReportRow, error) {
	if !p.IsManager() {
		return nil, NewPermissionDenied("only managers can view sales reports")
	}

	q := repo.SalesReportQuery{Sort: repo.SalesSortMostSold}

	switch in.Filter {
	case "", "most_sold":
	case "least_sold":
		q.Sort = repo.SalesSortLeastSold
	case "category":
		if strings.TrimSpace(in.Category) == "" {
			return nil, NewValidationError("category parameter is required for category filter")
		}
		q.Category = strings.TrimSpace(in.Category)
	default:
		return nil, NewValidationError("invalid filter type. use 'most_sold', 'least_sold', or 'category'")
	}

	rows, err := u.saleRepo.Report(ctx, q)
	if err != nil {
		return nil, NewUnexpectedError("db error")
	}
	return rows, nil
}
