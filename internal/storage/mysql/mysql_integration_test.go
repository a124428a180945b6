//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/kezar0001-cpu/Mawjood/internal/domain"
	mysqlrepo "github.com/kezar0001-cpu/Mawjood/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=mawjood",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "mawjood")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the tests ----------

func TestRepo_MySQL_AuthAndDirectory(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// --- registration is atomic ---
	u := domain.User{ID: "u-0000-0000-0000-000000000001", Email: "admin@mawjood.iq", PasswordHash: "bcrypt$x"}
	a := domain.Admin{ID: "a-0000-0000-0000-000000000001", UserID: u.ID, Email: u.Email, Role: "admin"}
	if err := repo.RegisterAdmin(ctx, u, a); err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}

	gotU, err := repo.GetUserByEmail(ctx, u.Email)
	if err != nil || gotU.ID != u.ID || gotU.PasswordHash != u.PasswordHash {
		t.Fatalf("GetUserByEmail: %+v err=%v", gotU, err)
	}
	gotA, err := repo.GetAdminByUserID(ctx, u.ID)
	if err != nil || gotA.Role != "admin" || gotA.CreatedAt == nil {
		t.Fatalf("GetAdminByUserID: %+v err=%v", gotA, err)
	}

	// duplicate email rolls back both rows
	u2 := domain.User{ID: "u-dup", Email: u.Email, PasswordHash: "x"}
	a2 := domain.Admin{ID: "a-dup", UserID: "u-dup", Email: u.Email, Role: "admin"}
	if err := repo.RegisterAdmin(ctx, u2, a2); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := repo.GetAdminByUserID(ctx, "u-dup"); err != domain.ErrNotFound {
		t.Fatalf("partial admin row survived rollback: %v", err)
	}

	// --- categories ---
	catA := domain.Category{ID: "cat-a", NameAr: "مقاهي", NameEn: pstr("Cafes")}
	catB := domain.Category{ID: "cat-b", NameAr: "مطاعم"}
	for _, c := range []domain.Category{catA, catB} {
		if err := repo.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory %s: %v", c.ID, err)
		}
	}

	cats, err := repo.ListCategories(ctx, 50)
	if err != nil || len(cats) != 2 {
		t.Fatalf("ListCategories: %d err=%v", len(cats), err)
	}
	// ordered by name_ar ascending
	if cats[0].NameAr > cats[1].NameAr {
		t.Fatalf("categories not ordered: %q, %q", cats[0].NameAr, cats[1].NameAr)
	}

	// --- businesses round trip ---
	biz := domain.Business{
		ID:         "biz-1",
		Name:       "Cafe Rawan",
		CategoryID: pstr("cat-a"),
		City:       pstr("Baghdad"),
		Phone:      pstr("0770"),
		Rating:     pfloat(4.5),
		Latitude:   pfloat(33.3128),
		Longitude:  pfloat(44.3615),
		Features:   []string{"wifi", "parking"},
		Images:     []string{"https://a.jpg"},
	}
	if err := repo.CreateBusiness(ctx, biz); err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}

	got, err := repo.GetBusiness(ctx, "biz-1")
	if err != nil {
		t.Fatalf("GetBusiness: %v", err)
	}
	if !reflect.DeepEqual(got.Business, biz) {
		t.Fatalf("round trip mismatch:\n  want %+v\n  got  %+v", biz, got.Business)
	}
	if got.CategoryNameAr == nil || *got.CategoryNameAr != "مقاهي" {
		t.Fatalf("category join missing: %+v", got.CategoryNameAr)
	}

	// resubmitting the identical row must keep it identical
	if err := repo.UpdateBusiness(ctx, biz); err != nil {
		t.Fatalf("no-op UpdateBusiness: %v", err)
	}
	got2, err := repo.GetBusiness(ctx, "biz-1")
	if err != nil || !reflect.DeepEqual(got2.Business, biz) {
		t.Fatalf("no-op update changed the row: %+v err=%v", got2.Business, err)
	}

	// --- filtered list ---
	others := []domain.Business{
		{ID: "biz-2", Name: "Cafe Dijlah", CategoryID: pstr("cat-b"), City: pstr("Baghdad")},
		{ID: "biz-3", Name: "Basra Grill", CategoryID: pstr("cat-a"), City: pstr("Basra")},
		{ID: "biz-4", Name: "Anwar Cafeteria", CategoryID: pstr("cat-a"), City: pstr("New Baghdad")},
	}
	for _, b := range others {
		if err := repo.CreateBusiness(ctx, b); err != nil {
			t.Fatalf("CreateBusiness %s: %v", b.ID, err)
		}
	}

	items, total, err := repo.ListBusinesses(ctx, domain.BusinessQuery{
		City:       "baghdad", // case-insensitive substring
		CategoryID: "cat-a",
		Search:     "caf",
		Page:       1,
		PageSize:   20,
	})
	if err != nil {
		t.Fatalf("ListBusinesses: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 matches, got total=%d len=%d", total, len(items))
	}
	// ordered by name ascending
	if items[0].Name != "Anwar Cafeteria" || items[1].Name != "Cafe Rawan" {
		t.Fatalf("unexpected order: %q, %q", items[0].Name, items[1].Name)
	}

	// --- pagination is offset-based ---
	page2, total4, err := repo.ListBusinesses(ctx, domain.BusinessQuery{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if total4 != 4 || len(page2) != 1 {
		t.Fatalf("expected total 4 with one row on page 2, got total=%d len=%d", total4, len(page2))
	}

	// --- category delete is non-cascading ---
	if err := repo.DeleteCategory(ctx, "cat-a"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := repo.GetCategory(ctx, "cat-a"); err != domain.ErrNotFound {
		t.Fatalf("category should be gone, got %v", err)
	}

	orphan, err := repo.GetBusiness(ctx, "biz-1")
	if err != nil {
		t.Fatalf("GetBusiness after category delete: %v", err)
	}
	if orphan.CategoryID == nil || *orphan.CategoryID != "cat-a" {
		t.Fatal("business must retain its stored category_id")
	}
	if orphan.CategoryNameAr != nil {
		t.Fatalf("dangling reference must resolve to no name, got %v", *orphan.CategoryNameAr)
	}

	// --- overview ---
	nb, err := repo.CountBusinesses(ctx)
	if err != nil || nb != 4 {
		t.Fatalf("CountBusinesses: %d err=%v", nb, err)
	}
	nc, err := repo.CountCategories(ctx)
	if err != nil || nc != 1 {
		t.Fatalf("CountCategories: %d err=%v", nc, err)
	}
	byCity, err := repo.BusinessesByCity(ctx)
	if err != nil {
		t.Fatalf("BusinessesByCity: %v", err)
	}
	counts := map[string]int{}
	for _, cc := range byCity {
		counts[cc.City] = cc.Count
	}
	if counts["Baghdad"] != 2 || counts["Basra"] != 1 || counts["New Baghdad"] != 1 {
		t.Fatalf("unexpected city counts: %v", counts)
	}

	// --- deletes ---
	if err := repo.DeleteBusiness(ctx, "biz-4"); err != nil {
		t.Fatalf("DeleteBusiness: %v", err)
	}
	if err := repo.DeleteBusiness(ctx, "biz-4"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
