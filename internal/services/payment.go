package services

import (
	"context"
	"log"

	"foodtruck_back_end/internal/apperr"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
)

// LineItem est une ligne de paiement : prix unitaire en centimes.
type LineItem struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64
	Quantity    int64
}

// PaymentProvider est le collaborateur de paiement : une seule opération,
// créer une page de paiement hébergée et rendre son URL de redirection.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, email string, items []LineItem, successURL, cancelURL string) (string, error)
}

// StripeProvider implémente PaymentProvider avec Stripe Checkout.
type StripeProvider struct{}

func NewStripeProvider() *StripeProvider { return &StripeProvider{} }

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, email string, items []LineItem, successURL, cancelURL string) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			productData.Images = []*string{stripe.String(item.ImageURL)}
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String("eur"),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: productData,
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}

	sess, err := session.New(params)
	if err != nil {
		log.Printf("❌ Erreur Stripe: %v", err)
		return "", apperr.Wrap(err, "Payment session could not be created")
	}

	log.Printf("💳 Session de paiement créée : %s", sess.ID)
	return sess.URL, nil
}
