package automation

import (
	"fmt"
	"strings"

	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/timezone"
)

const divider = "----------------------------------------"

func welcomeBody(workspace *models.Workspace, contact *models.Contact, publicURL string) string {
	return fmt.Sprintf(`Hello %s,

Thank you for reaching out to %s! We've received your inquiry and will get back to you as soon as possible.

In the meantime, you can book an appointment here:
%s/public/book/%s

Best regards,
The %s Team`,
		contact.Name, workspace.Name, publicURL, workspace.Slug, workspace.Name)
}

func confirmationBody(workspace *models.Workspace, bk *models.Booking) string {
	loc := timezone.Location(bk.Timezone)
	start := bk.StartTime.In(loc)
	end := bk.EndTime.In(loc)

	serviceName := "Appointment"
	duration := "N/A"
	if bk.Service != nil {
		serviceName = bk.Service.Name
		duration = fmt.Sprintf("%d minutes", bk.Service.DurationMin)
	}

	address := workspace.Address
	if address == "" {
		address = "To be confirmed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour booking has been confirmed!\n\n", bk.Contact.Name)
	fmt.Fprintf(&b, "%s\nAPPOINTMENT DETAILS\n%s\n\n", divider, divider)
	fmt.Fprintf(&b, "Service: %s\n", serviceName)
	fmt.Fprintf(&b, "Date: %s\n", start.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "Time: %s - %s\n", start.Format("3:04 PM"), end.Format("3:04 PM"))
	fmt.Fprintf(&b, "Duration: %s\n\n", duration)
	fmt.Fprintf(&b, "%s\nLOCATION\n%s\n\n%s\n\n", divider, divider, address)
	fmt.Fprintf(&b, "To reschedule or cancel, contact us at %s.\n\n", workspace.ContactEmail)
	fmt.Fprintf(&b, "Thank you for choosing %s!\n", workspace.Name)
	return b.String()
}

func formRequestBody(workspace *models.Workspace, form *models.Form, bk *models.Booking, link string) string {
	loc := timezone.Location(bk.Timezone)
	start := bk.StartTime.In(loc)

	desc := form.Description
	if desc == "" {
		desc = "This form is required before your appointment."
	}

	return fmt.Sprintf(`Hello %s,

Please complete the following form for your upcoming appointment:

%s
FORM: %s
%s

%s

Link: %s

This form must be completed before your appointment on %s at %s.

Best regards,
The %s Team`,
		bk.Contact.Name,
		divider, form.Name, divider,
		desc, link,
		start.Format("Monday, January 2, 2006"), start.Format("3:04 PM"),
		workspace.Name)
}

func reminderBody(workspace *models.Workspace, bk *models.Booking) string {
	loc := timezone.Location(bk.Timezone)
	start := bk.StartTime.In(loc)

	serviceName := "Appointment"
	if bk.Service != nil {
		serviceName = bk.Service.Name
	}

	address := workspace.Address
	if address == "" {
		address = "To be confirmed"
	}

	return fmt.Sprintf(`Hello %s,

This is a reminder of your upcoming appointment:

Service: %s
Date: %s
Time: %s
Location: %s

If you need to reschedule or cancel, please contact us at %s.

Best regards,
The %s Team`,
		bk.Contact.Name,
		serviceName,
		start.Format("Monday, January 2, 2006"),
		start.Format("3:04 PM"),
		address,
		workspace.ContactEmail,
		workspace.Name)
}

func lowStockBody(workspace *models.Workspace, item *models.InventoryItem) string {
	reorder := "Not set"
	if item.ReorderPoint != nil {
		reorder = fmt.Sprintf("%d", *item.ReorderPoint)
	}

	supplier := item.SupplierInfo
	if supplier == "" {
		supplier = "No supplier information available"
	}

	return fmt.Sprintf(`LOW STOCK ALERT - %s

Item: %s
SKU: %s
Current Quantity: %d %s
Threshold: %d %s
Reorder Point: %s

This item is below the minimum threshold and needs to be reordered.

Supplier Information:
%s`,
		workspace.Name,
		item.Name, item.SKU,
		item.Quantity, item.Unit,
		item.Threshold, item.Unit,
		reorder, supplier)
}

func formReminderBody(workspace *models.Workspace, form *models.Form, bk *models.Booking, link string) string {
	loc := timezone.Location(bk.Timezone)
	start := bk.StartTime.In(loc)

	return fmt.Sprintf(`Hello,

This is a reminder to complete the following form:

FORM: %s
Link: %s

Your appointment: %s at %s

Please complete this form as soon as possible.

Best regards,
The %s Team`,
		form.Name, link,
		start.Format("Monday, January 2, 2006"), start.Format("3:04 PM"),
		workspace.Name)
}
