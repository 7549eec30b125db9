package controllers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
)

// SubscriberRow is one line in the admin subscriber list
type SubscriberRow struct {
	UserID           uint       `json:"user_id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	SubscriptionID   uint       `json:"subscription_id"`
	PlanID           string     `json:"plan_id"`
	PlanName         string     `json:"plan_name"`
	Status           string     `json:"status"`
	PeriodEnd        time.Time  `json:"period_end"`
	CoffeesToday     int        `json:"coffees_today"`
	FoodToday        int        `json:"food_today"`
	CoffeesThisMonth int        `json:"coffees_this_month"`
	MonthlyAllowance int        `json:"monthly_allowance"`
	JoinedAt         time.Time  `json:"joined_at"`
	CancelAt         *time.Time `json:"cancel_at,omitempty"`
}

// subscriberStatus maps storage status to what the admin panel shows.
// Pending payments read as "unpaid" so staff know to collect cash.
func subscriberStatus(status string) string {
	if status == models.SubscriptionStatusPendingPayment {
		return "unpaid"
	}
	return status
}

// latestSubscriptions returns the newest subscription per user, optionally
// filtered by a search term on email or name.
func latestSubscriptions(search string) ([]models.Subscription, error) {
	var subs []models.Subscription
	query := config.DB.Preload("User").Order("created_at DESC")
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Joins("JOIN users ON users.id = subscriptions.user_id").
			Where("LOWER(users.email) LIKE ? OR LOWER(users.name) LIKE ?", term, term)
	}
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	latest := make([]models.Subscription, 0, len(subs))
	for _, sub := range subs {
		if seen[sub.UserID] {
			continue
		}
		seen[sub.UserID] = true
		latest = append(latest, sub)
	}
	return latest, nil
}

func buildSubscriberRow(sub models.Subscription) SubscriberRow {
	planID := models.NormalizePlanID(sub.PlanID)
	row := SubscriberRow{
		UserID:           sub.UserID,
		Email:            sub.User.Email,
		Name:             sub.User.Name,
		Phone:            sub.User.Phone,
		SubscriptionID:   sub.ID,
		PlanID:           string(planID),
		PlanName:         sub.PlanName,
		Status:           subscriberStatus(sub.Status),
		PeriodEnd:        sub.CurrentPeriodEnd,
		MonthlyAllowance: models.MonthlyCoffeeAllowance(sub.PlanID),
		JoinedAt:         sub.CreatedAt,
		CancelAt:         sub.CancelAt,
	}

	if summary, err := GetTodayUsageSummary(sub.UserID); err == nil {
		row.CoffeesToday = summary.Coffees
		row.FoodToday = summary.Food
	} else {
		utils.LogDebug("Failed to load today usage for user %d: %v", sub.UserID, err)
	}

	if count, err := GetPeriodCoffeeCount(sub.ID, sub.CurrentPeriodStart); err == nil {
		row.CoffeesThisMonth = int(count)
	}

	return row
}

// ListSubscribersHandler handles GET /admin/subscribers: one row per user
// with their newest subscription, today's usage, and monthly recurring
// revenue across the active base.
func ListSubscribersHandler(c *gin.Context) {
	utils.LogInfo("ListSubscribersHandler called")

	pagination := utils.NewPagination(c)
	search := utils.SanitizeString(c.Query("search"))

	latest, err := latestSubscriptions(search)
	if err != nil {
		utils.LogError("Failed to fetch subscriptions: %v", err)
		utils.InternalServerError(c, "Failed to fetch subscribers", err.Error())
		return
	}

	var mrr float64
	var activeCount, unpaidCount int
	rows := make([]SubscriberRow, 0, len(latest))
	for _, sub := range latest {
		rows = append(rows, buildSubscriberRow(sub))
		switch sub.Status {
		case models.SubscriptionStatusActive:
			activeCount++
			mrr += models.PlanPrice(sub.PlanID)
		case models.SubscriptionStatusPendingPayment:
			unpaidCount++
		}
	}
	mrr = math.Round(mrr*100) / 100

	pagination.SetTotal(int64(len(rows)))
	start := pagination.Offset
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pagination.Limit
	if end > len(rows) {
		end = len(rows)
	}

	utils.Success(c, "Subscribers retrieved", gin.H{
		"subscribers": rows[start:end],
		"summary": gin.H{
			"total":  len(rows),
			"active": activeCount,
			"unpaid": unpaidCount,
			"mrr":    mrr,
		},
		"pagination": gin.H{
			"current_page": pagination.Page,
			"per_page":     pagination.Limit,
			"total_items":  pagination.Total,
			"last_page":    pagination.LastPage,
		},
	})
}

// DeleteSubscriberHandler handles DELETE /admin/subscribers/:id: removes a
// user and everything hanging off them in one transaction. Usage rows go
// too; the ledger only outlives the member for active accounts.
func DeleteSubscriberHandler(c *gin.Context) {
	utils.LogInfo("DeleteSubscriberHandler called")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}
	userID := uint(id)

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var subIDs []uint
		if err := tx.Model(&models.Subscription{}).Where("user_id = ?", userID).
			Pluck("id", &subIDs).Error; err != nil {
			return err
		}
		if len(subIDs) > 0 {
			if err := tx.Where("subscription_id IN ?", subIDs).
				Delete(&models.SubscriptionMember{}).Error; err != nil {
				return err
			}
		}
		// Seats this user held on other people's bundles
		if err := tx.Where("member_user_id = ?", userID).
			Delete(&models.SubscriptionMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Usage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		utils.LogError("Failed to delete user %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to delete subscriber", err.Error())
		return
	}

	utils.LogInfo("Deleted user %d and related records", userID)
	utils.Success(c, "Subscriber deleted", gin.H{"user_id": userID})
}

// ExportSubscribersExcel handles GET /admin/subscribers/export: the full
// subscriber list as a spreadsheet for offline bookkeeping.
func ExportSubscribersExcel(c *gin.Context) {
	utils.LogInfo("ExportSubscribersExcel called")

	latest, err := latestSubscriptions(utils.SanitizeString(c.Query("search")))
	if err != nil {
		utils.LogError("Failed to fetch subscriptions: %v", err)
		utils.InternalServerError(c, "Failed to fetch subscribers", err.Error())
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Subscribers")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	companyRow := sheet.AddRow()
	companyRow.AddCell().SetString(strings.ToUpper(utils.AppName) + " - Subscriber Report")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Generated: " + time.Now().Format("2006-01-02 15:04"))
	sheet.AddRow() // spacing

	headers := []string{"User ID", "Email", "Name", "Phone", "Plan", "Status", "Period End", "Coffees Today", "Food Today", "Coffees This Month", "Monthly Allowance", "Joined"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var mrr float64
	for _, sub := range latest {
		r := buildSubscriberRow(sub)
		row := sheet.AddRow()
		row.AddCell().SetInt(int(r.UserID))
		row.AddCell().SetString(r.Email)
		row.AddCell().SetString(r.Name)
		row.AddCell().SetString(r.Phone)
		row.AddCell().SetString(r.PlanName)
		row.AddCell().SetString(r.Status)
		row.AddCell().SetString(r.PeriodEnd.Format("2006-01-02"))
		row.AddCell().SetInt(r.CoffeesToday)
		row.AddCell().SetInt(r.FoodToday)
		row.AddCell().SetInt(r.CoffeesThisMonth)
		row.AddCell().SetInt(r.MonthlyAllowance)
		row.AddCell().SetString(r.JoinedAt.Format("2006-01-02"))
		if sub.Status == models.SubscriptionStatusActive {
			mrr += models.PlanPrice(sub.PlanID)
		}
	}

	sheet.AddRow() // spacing
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Subscribers", fmt.Sprintf("%d", len(latest))},
		{"Monthly Recurring Revenue", fmt.Sprintf("%.2f %s", math.Round(mrr*100)/100, models.DefaultCurrency)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=subscribers_"+time.Now().Format("20060102")+".xlsx")
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to generate Excel file", err.Error())
		return
	}
	utils.LogInfo("Subscriber Excel report generated with %d rows", len(latest))
}
