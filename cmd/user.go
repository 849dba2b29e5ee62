package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/qingnian/blog-api/internal/database"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "用户管理",
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建管理员账号",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateAdmin()
	},
}

func init() {
	userCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(userCmd)
}

func runCreateAdmin() error {
	if err := initializeSystem(); err != nil {
		return err
	}
	defer logger.Close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("用户名: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 20 {
		return errors.New("用户名长度需在3到20个字符之间")
	}

	fmt.Print("邮箱: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return errors.New("邮箱格式不正确")
	}

	fmt.Print("密码: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return err
	}
	if len(password) < 6 {
		return errors.New("密码长度不能少于6个字符")
	}

	fmt.Print("确认密码: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return err
	}
	if string(password) != string(confirm) {
		return errors.New("两次输入的密码不一致")
	}

	ctx := context.Background()
	st := store.NewGormStore(database.GetDB())

	if _, err := st.GetUserByUsername(ctx, username); err == nil {
		return errors.New("用户名已存在")
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, err := st.GetUserByEmail(ctx, email); err == nil {
		return errors.New("邮箱已被注册")
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Avatar:   model.DefaultAvatar,
		Role:     model.RoleAdmin,
	}
	if err := st.CreateUser(ctx, admin); err != nil {
		return err
	}

	fmt.Printf("管理员账号 %s 创建成功\n", username)
	return nil
}
