package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ait-csi/notice-board/backend/internal/config"
	"github.com/ait-csi/notice-board/backend/internal/repository"
	"github.com/ait-csi/notice-board/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var password string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机公告)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&password, "password", "", "随机用户的登录密码")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 1:
		if password == "" {
			logger.Error("插入随机用户时必须通过 -password 指定登录密码")
			return
		}
		seed.SeedRandomUsers(repo, n, password, cfg.Email.UserDomain)
	case 2:
		seed.SeedRandomNotices(repo, n)
	default:
		logger.Error("无效的操作", "op", op)
	}
}
