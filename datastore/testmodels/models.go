/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds entity types shared by the dynamoentity tests.
package testmodels

//go:generate go run ../../cmd/entitygen

import "github.com/go-openapi/strfmt"

// Profile has a prefixed hash key and a constant sort key. Its key methods are generated.
//
//dynamoentity:generate
type Profile struct {
	ID          string       `dynamodbav:"id" json:"id" dynamoentity:"hash_key,prefix=USER#"`
	SK          string       `dynamodbav:"sk" json:"sk" dynamoentity:"sort_key,const=PROFILE"`
	DisplayName string       `dynamodbav:"displayName" json:"displayName"`
	Email       strfmt.Email `dynamodbav:"email,omitempty" json:"email,omitempty"`
}

// Order has a prefixed sort key and the attributes of the GSI1 index. Its key methods are generated.
//
//dynamoentity:generate
type Order struct {
	CustomerID string  `dynamodbav:"customerId" dynamoentity:"hash_key"`
	OrderID    string  `dynamodbav:"sk" dynamoentity:"sort_key,prefix=ORD#"`
	Status     string  `dynamodbav:"PK1,omitempty"`
	PlacedOn   string  `dynamodbav:"SK1,omitempty"`
	Total      float64 `dynamodbav:"total"`
}

// Account mirrors Profile without generated methods.
type Account struct {
	ID          string       `dynamodbav:"id" dynamoentity:"hash_key,prefix=USER#"`
	SK          string       `dynamodbav:"sk" dynamoentity:"sort_key,const=PROFILE"`
	DisplayName string       `dynamodbav:"displayName"`
	Email       strfmt.Email `dynamodbav:"email,omitempty"`
}

// AccountKey is the key of Account.
type AccountKey struct {
	ID string `dynamodbav:"id"`
	SK string `dynamodbav:"sk"`
}

// Shipment mirrors Order without generated methods.
type Shipment struct {
	CustomerID string  `dynamodbav:"customerId" dynamoentity:"hash_key"`
	OrderID    string  `dynamodbav:"sk" dynamoentity:"sort_key,prefix=ORD#"`
	Status     string  `dynamodbav:"PK1,omitempty"`
	PlacedOn   string  `dynamodbav:"SK1,omitempty"`
	Total      float64 `dynamodbav:"total"`
}

// ShipmentKey is the key of Shipment.
type ShipmentKey struct {
	CustomerID string `dynamodbav:"customerId"`
	SK         string `dynamodbav:"sk"`
}

// Invoice relies on the default id and sk key names.
type Invoice struct {
	ID          strfmt.UUID `dynamodbav:"id"`
	SK          string      `dynamodbav:"sk"`
	AmountCents int64       `dynamodbav:"amountCents"`
}

// InvoiceKey is the key of Invoice.
type InvoiceKey struct {
	ID strfmt.UUID `dynamodbav:"id"`
	SK string      `dynamodbav:"sk"`
}

// RatingSystem is hash-only and stores its hash key under a renamed attribute.
type RatingSystem struct {
	SystemID    string     `dynamodbav:"systemId" dynamoentity:"hash_key,name=PK"`
	Name        string     `dynamodbav:"name"`
	Description string     `dynamodbav:"description,omitempty"`
	SiteURL     strfmt.URI `dynamodbav:"siteUrl,omitempty"`
}

// RatingSystemKey is the key of RatingSystem.
type RatingSystemKey struct {
	PK string `dynamodbav:"PK"`
}

// Note has no key field and can't be mapped.
type Note struct {
	Text string
}
