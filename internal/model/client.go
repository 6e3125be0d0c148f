package model

import "time"

// Client is the guest profile linked to a user account.  A client
// owns zero or more reservations.  Profile fields are optional and
// exist purely for back-office display.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – linked user account (one client per user).
//  RegistrationDate – when the profile was created.
//  Gender           – optional free-form gender label.
//  Country          – optional country of residence.
//  IsVIP            – whether the client has VIP status.
type Client struct {
    ID               uint64    // clients.id
    UserID           uint64    // clients.user_id
    RegistrationDate time.Time // clients.registration_date
    Gender           *string   // clients.gender (nullable)
    Country          *string   // clients.country (nullable)
    IsVIP            bool      // clients.is_vip
}
