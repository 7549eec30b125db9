package utils

import (
	"errors"
	"os"
	"time"

	"github.com/browngirlclub/membership/models"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a JWT token for a member
func GenerateToken(user *models.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID
	claims["email"] = user.Email
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix() // 24 hour expiration

	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the member's user ID
func ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return 0, errors.New("invalid user ID in token")
		}
		return uint(userID), nil
	}

	return 0, errors.New("invalid token")
}

// MemberInvite carries the payload of a bundle-seat invitation.
type MemberInvite struct {
	SubscriptionID uint
	Email          string
	Name           string
}

// GenerateMemberInviteToken creates a signed invite token for a bundle seat.
// The token is emailed to the invitee and expires after seven days.
func GenerateMemberInviteToken(invite MemberInvite) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"purpose":         "member_invite",
		"subscription_id": invite.SubscriptionID,
		"email":           invite.Email,
		"name":            invite.Name,
		"exp":             time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// ParseMemberInviteToken validates an invite token and returns its payload
func ParseMemberInviteToken(tokenString string) (*MemberInvite, error) {
	claims, err := parsePurposeToken(tokenString, "member_invite")
	if err != nil {
		return nil, err
	}

	subID, ok := claims["subscription_id"].(float64)
	if !ok {
		return nil, errors.New("invalid subscription ID in invite token")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errors.New("missing email in invite token")
	}
	name, _ := claims["name"].(string)

	return &MemberInvite{
		SubscriptionID: uint(subID),
		Email:          email,
		Name:           name,
	}, nil
}

// GenerateCashierInviteToken creates a signed invite token for counter staff
func GenerateCashierInviteToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"purpose": "cashier_invite",
		"email":   email,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// ParseCashierInviteToken validates a cashier invite token and returns the email
func ParseCashierInviteToken(tokenString string) (string, error) {
	claims, err := parsePurposeToken(tokenString, "cashier_invite")
	if err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", errors.New("missing email in invite token")
	}
	return email, nil
}

func parsePurposeToken(tokenString, purpose string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if got, _ := claims["purpose"].(string); got != purpose {
		return nil, errors.New("wrong token purpose")
	}
	return claims, nil
}
