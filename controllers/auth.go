package controllers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"voice-corpus-api/config"
	"voice-corpus-api/middleware"
	"voice-corpus-api/models"
	"voice-corpus-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token   string         `json:"token"`
	Account models.Account `json:"account"`
	Message string         `json:"message"`
}

type RegisterRequest struct {
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required"`
	Role      string   `json:"role"`
	FirstName string   `json:"first_name" binding:"required"`
	LastName  string   `json:"last_name" binding:"required"`
	Languages []string `json:"languages"`
}

// Login handles authentication. The same email may be registered once per
// role, so the role participates in the lookup.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.RoleReviewer
	}

	account, err := accountService.GetAccountByEmailAndRole(c.Request.Context(), req.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if account == nil || !CheckPasswordHash(req.Password, account.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if account.Status != models.AccountStatusActive || !account.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is not active yet"})
		return
	}

	token, err := generateToken(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Account: *account,
		Message: "Login successful",
	})
}

// Register creates a new account. Contributor accounts are active
// immediately; reviewer accounts start pending and wait for admin approval.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.RoleContributor
	}
	if role != models.RoleContributor && role != models.RoleReviewer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be contributor or reviewer"})
		return
	}

	// One row per (email, role); the same email under another role is fine.
	existing, err := accountService.GetAccountByEmailAndRole(c.Request.Context(), email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email and role already exists"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	status := models.AccountStatusActive
	if role == models.RoleReviewer {
		status = models.AccountStatusPending
	}

	now := time.Now()
	account := models.Account{
		AccountID: uuid.NewString(),
		FirstName: utils.SanitizeInput(req.FirstName),
		LastName:  utils.SanitizeInput(req.LastName),
		Email:     email,
		Password:  hashed,
		Role:      role,
		Status:    status,
		Languages: strings.Join(req.Languages, ","),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := config.DB.Create(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	accountService.InvalidateAccountCache()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"account": account,
		"message": "Account created",
	})
}

// GetProfile returns the authenticated account.
func GetProfile(c *gin.Context) {
	accountID := c.GetString("accountID")

	account, err := accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "account": account})
}

type UpdateProfileRequest struct {
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Languages  []string `json:"languages"`
	NationalID string   `json:"national_id"`
	Phone      string   `json:"phone"`
}

// UpdateProfile completes or edits the onboarding profile. National ID and
// phone are unique across all roles; the probes exclude the caller's own
// account so resubmitting an unchanged value never conflicts.
func UpdateProfile(c *gin.Context) {
	accountID := c.GetString("accountID")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if name := utils.SanitizeInput(req.FirstName); name != "" {
		updates["first_name"] = name
	}
	if name := utils.SanitizeInput(req.LastName); name != "" {
		updates["last_name"] = name
	}
	if len(req.Languages) > 0 {
		updates["languages"] = strings.Join(req.Languages, ",")
	}

	nationalID := utils.SanitizeInput(req.NationalID)
	if nationalID != "" {
		if !utils.ValidateNationalID(nationalID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid national ID"})
			return
		}
		if accountService.CheckNationalIDExists(c.Request.Context(), nationalID, accountID) {
			c.JSON(http.StatusConflict, gin.H{"error": "This ID number is already registered"})
			return
		}
		updates["national_id"] = nationalID
	}

	phone := utils.SanitizeInput(req.Phone)
	if phone != "" {
		if !utils.ValidatePhone(phone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
			return
		}
		if accountService.CheckPhoneExists(c.Request.Context(), phone, accountID) {
			c.JSON(http.StatusConflict, gin.H{"error": "This phone number is already registered"})
			return
		}
		updates["phone"] = phone
	}

	if nationalID != "" && phone != "" {
		updates["profile_completed"] = true
	}

	if err := config.DB.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	accountService.InvalidateAccountCache()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated"})
}

func generateToken(account *models.Account) (string, error) {
	claims := middleware.Claims{
		AccountID: account.AccountID,
		Email:     account.Email,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
