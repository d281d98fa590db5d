package service

import (
	"fmt"
	"time"

	"github.com/littlesteps/booking/internal/model"
)

const emailDateFormat = "January 2, 2006 at 15:04 MST"

func exportReadyEmailTemplate(downloadURL string, expiresAt time.Time, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s data export is ready", appName)
	body := fmt.Sprintf(`You asked for a copy of the personal data we hold about you.

Download it here:
%s

The link works once and expires on %s.

If you didn't request this, you can safely ignore this email.

Best,
The %s Team`, downloadURL, expiresAt.UTC().Format(emailDateFormat), appName)

	return subject, body
}

func noDataOnFileEmailTemplate(request, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s data request", appName)
	body := fmt.Sprintf(`We received a data %s request for this email address.

We don't hold any bookings or consent records for it, so there is nothing to %s.

If you booked with a different address, please submit the request again using that one.

Best,
The %s Team`, request, noDataVerb(request), appName)

	return subject, body
}

func noDataVerb(request string) string {
	if request == "deletion" {
		return "delete"
	}
	return "export"
}

func deletionConfirmEmailTemplate(confirmURL string, expiresAt time.Time, appName string) (string, string) {
	subject := fmt.Sprintf("Confirm deletion of your %s data", appName)
	body := fmt.Sprintf(`You asked us to delete the personal data we hold about you, including your bookings.

Confirm the deletion here:
%s

This cannot be undone. The link expires on %s.

If you didn't request this, ignore this email and nothing will be deleted.

Best,
The %s Team`, confirmURL, expiresAt.UTC().Format(emailDateFormat), appName)

	return subject, body
}

func deletionCompleteEmailTemplate(appName string) (string, string) {
	subject := fmt.Sprintf("Your %s data has been deleted", appName)
	body := fmt.Sprintf(`As requested, we have deleted your bookings and consent records.

You won't hear from us again unless you make a new booking.

Best,
The %s Team`, appName)

	return subject, body
}

func bookingReceivedEmailTemplate(b *model.Booking, appName string) (string, string) {
	subject := fmt.Sprintf("We received your %s booking request", appName)
	body := fmt.Sprintf(`Hi %s,

Thanks for your request. Here is what we received:

Service: %s
Date: %s at %s
Duration: %s hours
Children: %d
Estimated total: %s

We'll confirm availability shortly.

Best,
The %s Team`, b.ParentName, b.ServiceType, b.BookingDate, b.StartTime,
		formatHours(b.DurationHours), b.ChildrenCount, formatAmount(b.TotalAmount), appName)

	return subject, body
}

func bookingAdminEmailTemplate(b *model.Booking, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("New booking request: %s on %s", b.ParentName, b.BookingDate)
	body := fmt.Sprintf(`New booking request on %s.

Parent: %s <%s>
Phone: %s
Service: %s
Date: %s at %s
Duration: %s hours
Children: %d (%s)
Estimated total: %s

Notes:
%s

Review it in the dashboard: %s/admin/bookings/%s`, appName, b.ParentName, b.Email, b.Phone,
		b.ServiceType, b.BookingDate, b.StartTime, formatHours(b.DurationHours),
		b.ChildrenCount, b.ChildrenAges, formatAmount(b.TotalAmount), b.Notes, appURL, b.ID)

	return subject, body
}

func bookingStatusEmailTemplate(b *model.Booking, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s booking is %s", appName, b.Status)
	body := fmt.Sprintf(`Hi %s,

Your booking for %s at %s is now %s.

Reply to this email if anything needs to change.

Best,
The %s Team`, b.ParentName, b.BookingDate, b.StartTime, b.Status, appName)

	return subject, body
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func formatHours(hours float64) string {
	return fmt.Sprintf("%g", hours)
}
