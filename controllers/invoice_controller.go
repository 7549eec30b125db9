package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// ListInvoicesHandler handles GET /invoices: the member's own invoices
func ListInvoicesHandler(c *gin.Context) {
	utils.LogInfo("ListInvoicesHandler called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}
	user := userVal.(models.User)

	var invoices []models.Invoice
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").Find(&invoices).Error; err != nil {
		utils.LogError("Failed to fetch invoices for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch invoices", err.Error())
		return
	}
	utils.Success(c, "Invoices retrieved", gin.H{"invoices": invoices})
}

// DownloadInvoice generates and returns a PDF invoice for a membership payment
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("Starting invoice download process")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("Unauthorized invoice download attempt - no user found in context")
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}
	user := userVal.(models.User)

	invoiceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid invoice ID format in download request: %v", err)
		utils.BadRequest(c, "Invalid invoice ID", nil)
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("User").
		Where("id = ? AND user_id = ?", invoiceID, user.ID).
		First(&invoice).Error; err != nil {
		utils.LogError("Invoice not found - Invoice ID: %d, User ID: %d", invoiceID, user.ID)
		utils.NotFound(c, "Invoice not found")
		return
	}

	var planName string
	if invoice.SubscriptionID != nil {
		var sub models.Subscription
		if err := config.DB.First(&sub, *invoice.SubscriptionID).Error; err == nil {
			planName = sub.PlanName
		}
	}
	if planName == "" {
		planName = "Membership"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Club info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, utils.DefaultLocation)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: hello@browngirlclub.com")
	pdf.Ln(12)

	// Invoice title and payment info
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(50, 8, "Invoice ID: "+strconv.Itoa(int(invoice.ID)))
	pdf.Cell(60, 8, "Date: "+invoice.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(50, 8, "Payment Method: Cash")
	pdf.Cell(60, 8, "Status: "+invoice.Status)
	pdf.Ln(8)
	if invoice.PaidAt != nil {
		pdf.Cell(100, 8, "Paid: "+invoice.PaidAt.Format("2006-01-02 15:04:05"))
		pdf.Ln(8)
	}

	// Member info
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, invoice.User.Name)
	pdf.Ln(6)
	pdf.Cell(100, 8, invoice.User.Email)
	pdf.Ln(6)
	if invoice.User.Phone != "" {
		pdf.Cell(100, 8, "Phone: "+invoice.User.Phone)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Line item
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(90, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Period", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(90, 8, planName+" membership", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%d days", models.SubscriptionPeriodDays), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", invoice.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	// Total
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Total ("+invoice.Currency+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", invoice.Amount), "", 1, "R", false, 0, "")

	// Thank you note
	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(100, 8, "Thank you for being part of the club!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate invoice PDF: %v", err)
		utils.InternalServerError(c, "Failed to generate invoice", err.Error())
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", invoice.ID))
	c.Data(200, "application/pdf", buf.Bytes())
	utils.LogInfo("Invoice %d PDF generated for user %d", invoice.ID, user.ID)
}
