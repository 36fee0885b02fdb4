package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"maa.plus/backend-next/internal/app/appconfig"
	"maa.plus/backend-next/internal/constant"
	"maa.plus/backend-next/internal/model"
	"maa.plus/backend-next/internal/model/cache"
	"maa.plus/backend-next/internal/model/types"
	"maa.plus/backend-next/internal/pkg/maaerr"
	"maa.plus/backend-next/internal/repo"
)

type User struct {
	UserRepo    *repo.User
	MailService *Mail

	jwtSecret []byte
	jwtExpire time.Duration
}

func NewUser(userRepo *repo.User, mailService *Mail, conf *appconfig.Config) *User {
	return &User{
		UserRepo:    userRepo,
		MailService: mailService,
		jwtSecret:   []byte(conf.JWTSecret),
		jwtExpire:   conf.JWTExpire,
	}
}

// Register creates an inactive account and mails an activation link. The
// mail failing to go out does not fail the registration; the user can
// request a new code later.
func (s *User) Register(ctx context.Context, req *types.RegisterReq) (*types.UserInfo, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &model.User{
		UserName: req.UserName,
		Email:    strings.ToLower(req.Email),
		Password: string(hash),
		Status:   constant.UserStatusInactive,
	}
	if err := s.UserRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.MailService.SendActivationURL(ctx, user.Email); err != nil {
		log.Warn().
			Err(err).
			Str("evt.name", "user.register").
			Str("email", user.Email).
			Msg("failed to send activation mail")
	}

	return userInfo(user), nil
}

// Login verifies the credentials and issues a JWT. The per-session random
// token is stored in redis and embedded as jti; an existing cached session
// is reused so that logging in twice does not invalidate the first client.
func (s *User) Login(ctx context.Context, req *types.LoginReq) (*types.LoginRsp, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, maaerr.ErrUnauthorized.Msg("email or password is incorrect")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, maaerr.ErrUnauthorized.Msg("email or password is incorrect")
	}

	token := uniuri.NewLen(constant.SessionTokenLength)
	cacheKey := strconv.Itoa(user.UserID)

	var cached model.LoginUser
	if err := cache.LoginUserByID.Get(cacheKey, &cached); err == nil && cached.Token != "" {
		token = cached.Token
	}
	loginUser := model.LoginUser{
		User:  *user,
		Token: token,
	}
	if err := cache.LoginUserByID.Set(cacheKey, loginUser, s.jwtExpire); err != nil {
		return nil, err
	}

	now := time.Now()
	validBefore := now.Add(s.jwtExpire)
	jwtToken, err := s.signJWT(user.UserID, token, now, validBefore)
	if err != nil {
		return nil, err
	}

	return &types.LoginRsp{
		Token:       jwtToken,
		ValidAfter:  now.Format(time.RFC3339),
		ValidBefore: validBefore.Format(time.RFC3339),
		UserInfo:    userInfo(user),
	}, nil
}

// ActivateByCode activates the account of the logged-in user with a mailed
// verification code.
func (s *User) ActivateByCode(ctx context.Context, loginUser *model.LoginUser, code string) error {
	if loginUser.User.Status == constant.UserStatusActivated {
		return nil
	}
	if err := s.MailService.VerifyCode(ctx, loginUser.User.Email, code); err != nil {
		return err
	}

	loginUser.User.Status = constant.UserStatusActivated
	if err := s.UserRepo.UpdateUser(ctx, &loginUser.User); err != nil {
		return err
	}
	return s.refreshSession(loginUser)
}

// ActivateByNonce activates an account via the mailed activation link.
func (s *User) ActivateByNonce(ctx context.Context, nonce string) error {
	var email string
	if err := cache.EmailByNonce.Get(nonce, &email); err != nil || email == "" {
		return maaerr.ErrInvalidReq.Msg("activation link is invalid or has expired")
	}

	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	_ = cache.EmailByNonce.Delete(nonce)

	if user.Status == constant.UserStatusActivated {
		return nil
	}
	user.Status = constant.UserStatusActivated
	if err := s.UserRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	// keep an already-established session coherent with the new status
	cacheKey := strconv.Itoa(user.UserID)
	var cached model.LoginUser
	if err := cache.LoginUserByID.Get(cacheKey, &cached); err == nil {
		cached.User = *user
		_ = cache.LoginUserByID.Set(cacheKey, cached, s.jwtExpire)
	}
	return nil
}

// ResendActivation mails a fresh verification code to a not-yet-activated
// user.
func (s *User) ResendActivation(ctx context.Context, loginUser *model.LoginUser) error {
	if loginUser.User.Status == constant.UserStatusActivated {
		return maaerr.ErrInvalidReq.Msg("account is already activated")
	}
	return s.MailService.SendVerificationCode(ctx, loginUser.User.Email)
}

func (s *User) UpdateInfo(ctx context.Context, loginUser *model.LoginUser, req *types.UserInfoUpdateReq) error {
	loginUser.User.UserName = req.UserName
	if err := s.UserRepo.UpdateUser(ctx, &loginUser.User); err != nil {
		return err
	}
	return s.refreshSession(loginUser)
}

// UpdatePassword changes the password and rotates the session token, which
// invalidates every previously issued JWT of the user.
func (s *User) UpdatePassword(ctx context.Context, loginUser *model.LoginUser, req *types.PasswordUpdateReq) error {
	if err := bcrypt.CompareHashAndPassword([]byte(loginUser.User.Password), []byte(req.OriginalPassword)); err != nil {
		return maaerr.ErrUnauthorized.Msg("original password is incorrect")
	}
	return s.setPassword(ctx, &loginUser.User, req.NewPassword)
}

// ResetPasswordRequest mails a verification code to the account's email.
func (s *User) ResetPasswordRequest(ctx context.Context, email string) error {
	email = strings.ToLower(email)
	if _, err := s.UserRepo.GetUserByEmail(ctx, email); err != nil {
		return maaerr.ErrNotFound.Msg("no account is registered with this email")
	}
	return s.MailService.SendVerificationCode(ctx, email)
}

// ResetPassword changes the password after verifying the mailed code.
func (s *User) ResetPassword(ctx context.Context, req *types.PasswordResetReq) error {
	email := strings.ToLower(req.Email)
	if err := s.MailService.VerifyCode(ctx, email, req.ActiveCode); err != nil {
		return err
	}
	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user, req.Password)
}

func (s *User) setPassword(ctx context.Context, user *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	user.Password = string(hash)
	if err := s.UserRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	// rotate the session token so stolen JWTs die with the old password
	loginUser := model.LoginUser{
		User:  *user,
		Token: uniuri.NewLen(constant.SessionTokenLength),
	}
	return cache.LoginUserByID.Set(strconv.Itoa(user.UserID), loginUser, s.jwtExpire)
}

func (s *User) refreshSession(loginUser *model.LoginUser) error {
	return cache.LoginUserByID.Set(strconv.Itoa(loginUser.User.UserID), *loginUser, s.jwtExpire)
}

func (s *User) signJWT(userID int, sessionToken string, now, validBefore time.Time) (string, error) {
	claims := jwt.MapClaims{
		"userId": strconv.Itoa(userID),
		"jti":    sessionToken,
		"iat":    now.Unix(),
		"nbf":    now.Unix(),
		"exp":    validBefore.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign JWT")
	}
	return signed, nil
}

// FromToken validates the JWT and resolves the cached session it refers to.
func (s *User) FromToken(ctx context.Context, tokenString string) (*model.LoginUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, maaerr.ErrUnauthorized.Msg("session token is invalid or has expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, maaerr.ErrUnauthorized.Msg("session token is invalid or has expired")
	}
	userID, _ := claims["userId"].(string)
	jti, _ := claims["jti"].(string)
	if userID == "" || jti == "" {
		return nil, maaerr.ErrUnauthorized.Msg("session token is invalid or has expired")
	}

	var loginUser model.LoginUser
	if err := cache.LoginUserByID.Get(userID, &loginUser); err != nil {
		return nil, maaerr.ErrUnauthorized.Msg("session has expired, please log in again")
	}
	if loginUser.Token != jti {
		return nil, maaerr.ErrUnauthorized.Msg("session has been revoked, please log in again")
	}
	return &loginUser, nil
}

// Middleware authenticates the request via the Authorization header and
// stores the login user in ctx locals under constant.ContextKeyLoginUser.
func (s *User) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := ctx.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(auth, constant.JWTAuthorizationRealm+" ")
		if !found || tokenString == "" {
			return maaerr.ErrUnauthorized.Msg("missing credentials")
		}

		loginUser, err := s.FromToken(ctx.UserContext(), tokenString)
		if err != nil {
			return err
		}
		ctx.Locals(constant.ContextKeyLoginUser, loginUser)
		return ctx.Next()
	}
}

// CurrentUser returns the login user injected by Middleware.
func CurrentUser(ctx *fiber.Ctx) (*model.LoginUser, error) {
	loginUser, ok := ctx.Locals(constant.ContextKeyLoginUser).(*model.LoginUser)
	if !ok || loginUser == nil {
		return nil, maaerr.ErrUnauthorized.Msg("missing credentials")
	}
	return loginUser, nil
}

func userInfo(u *model.User) *types.UserInfo {
	return &types.UserInfo{
		ID:        u.UserID,
		UserName:  u.UserName,
		Email:     u.Email,
		Activated: u.Status == constant.UserStatusActivated,
	}
}
