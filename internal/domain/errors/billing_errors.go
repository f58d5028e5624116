package errors

import (
	apperrors "github.com/kenang-app/kenang-billing/pkg/errors"
)

// Reasons returned to clients in the "code" field.
const (
	CodeInvalidPlan            = "INVALID_PLAN"
	CodeFreePlanNotPurchasable = "FREE_PLAN_NOT_PURCHASABLE"
	CodePaymentNotConfigured   = "PAYMENT_NOT_CONFIGURED"
	CodePaymentAPIError        = "PAYMENT_API_ERROR"
	CodeInvalidSignature       = "INVALID_SIGNATURE"
	CodeInvalidNotification    = "INVALID_NOTIFICATION"
	CodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	CodePlanNotFound           = "PLAN_NOT_FOUND"
	CodePaymentNotSuccessful   = "PAYMENT_NOT_SUCCESSFUL"
	CodeSubscriptionNotActive  = "SUBSCRIPTION_NOT_ACTIVE"
	CodeNotFound               = "NOT_FOUND"
	CodeForbidden              = "FORBIDDEN"
)

var (
	// ErrInvalidPlan indicates the requested plan does not exist
	ErrInvalidPlan = apperrors.NewReasonError(apperrors.ErrBusinessRule, CodeInvalidPlan,
		"Paket subscription tidak ditemukan.")

	// ErrFreePlanNotPurchasable indicates a checkout for the free plan
	ErrFreePlanNotPurchasable = apperrors.NewReasonError(apperrors.ErrBusinessRule, CodeFreePlanNotPurchasable,
		"Paket gratis tidak perlu dibeli.")

	// ErrPaymentNotConfigured indicates the gateway credentials are missing
	ErrPaymentNotConfigured = apperrors.NewReasonError(apperrors.ErrUnavailable, CodePaymentNotConfigured,
		"Layanan pembayaran tidak tersedia saat ini. Silakan hubungi admin.")

	// ErrPaymentAPI indicates the gateway rejected or failed a session request
	ErrPaymentAPI = apperrors.NewReasonError(apperrors.ErrUnavailable, CodePaymentAPIError,
		"Gagal membuat sesi pembayaran. Silakan coba lagi.")

	// ErrInvalidSignature indicates a notification whose signature does not verify
	ErrInvalidSignature = apperrors.NewReasonError(apperrors.ErrUnauthenticated, CodeInvalidSignature,
		"Invalid signature")

	// ErrInvalidNotification indicates a notification missing required fields
	ErrInvalidNotification = apperrors.NewReasonError(apperrors.ErrBusinessRule, CodeInvalidNotification,
		"Invalid notification payload")

	// ErrPaymentNotFound indicates no payment exists for the order id
	ErrPaymentNotFound = apperrors.NewReasonError(apperrors.ErrNotFound, CodePaymentNotFound,
		"Pembayaran tidak ditemukan")

	// ErrPlanNotFound indicates no plan matches a settled amount
	ErrPlanNotFound = apperrors.NewReasonError(apperrors.ErrBusinessRule, CodePlanNotFound,
		"Paket tidak ditemukan untuk pembayaran ini")

	// ErrPaymentNotSuccessful indicates activation from an unsettled payment
	ErrPaymentNotSuccessful = apperrors.NewReasonError(apperrors.ErrBusinessRule, CodePaymentNotSuccessful,
		"Pembayaran belum berhasil. Tidak bisa membuat subscription.")

	// ErrSubscriptionNotActive indicates a cancel of a non-active subscription
	ErrSubscriptionNotActive = apperrors.NewReasonError(apperrors.ErrBusinessRule, CodeSubscriptionNotActive,
		"Subscription tidak aktif. Tidak bisa dibatalkan.")

	// ErrUserNotFound indicates the user does not exist
	ErrUserNotFound = apperrors.NewReasonError(apperrors.ErrNotFound, CodeNotFound,
		"Pengguna tidak ditemukan")

	// ErrSubscriptionNotFound indicates the subscription does not exist
	ErrSubscriptionNotFound = apperrors.NewReasonError(apperrors.ErrNotFound, CodeNotFound,
		"Subscription tidak ditemukan")

	// ErrNoActiveSubscription indicates the user is on the free tier
	ErrNoActiveSubscription = apperrors.NewReasonError(apperrors.ErrNotFound, CodeNotFound,
		"Tidak ada subscription aktif")

	// ErrForbidden indicates the subscription belongs to someone else
	ErrForbidden = apperrors.NewReasonError(apperrors.ErrForbidden, CodeForbidden,
		"Kamu tidak punya akses ke subscription ini")
)
