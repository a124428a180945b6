package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valList(v []string) any {
	if v == nil {
		return nil
	}
	b, _ := json.Marshal(v)
	return string(b)
}
func ptrStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}
func ptrF64(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

const duplicateEntry = 1062

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- AuthStore ----

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, getUserByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repo) GetAdminByUserID(ctx context.Context, userID string) (domain.Admin, error) {
	var a domain.Admin
	var created sql.NullTime
	err := r.db.QueryRowContext(ctx, getAdminByUserIDSQL, userID).
		Scan(&a.ID, &a.UserID, &a.Email, &a.Role, &created)
	if err == sql.ErrNoRows {
		return domain.Admin{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Admin{}, err
	}
	if created.Valid {
		t := created.Time
		a.CreatedAt = &t
	}
	return a, nil
}

// RegisterAdmin inserts the identity and its admin record in one
// transaction; a failure of either insert rolls back both.
func (r *Repo) RegisterAdmin(ctx context.Context, u domain.User, a domain.Admin) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertUserSQL, u.ID, u.Email, u.PasswordHash); err != nil {
		return mapDup(err)
	}
	if _, err := tx.ExecContext(ctx, insertAdminSQL, a.ID, a.UserID, a.Email, a.Role); err != nil {
		return mapDup(err)
	}
	return tx.Commit()
}

func mapDup(err error) error {
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == duplicateEntry {
		return domain.ErrEmailTaken
	}
	return err
}

// ---- Categories ----

func (r *Repo) CreateCategory(ctx context.Context, c domain.Category) error {
	_, err := r.db.ExecContext(ctx, insertCategorySQL, c.ID, c.NameAr, valStr(c.NameEn), valStr(c.Icon))
	return err
}

// An update that changes no column values still succeeds: RowsAffected
// is 0 for a no-op write, so it cannot distinguish a missing row.
func (r *Repo) UpdateCategory(ctx context.Context, c domain.Category) error {
	_, err := r.db.ExecContext(ctx, updateCategorySQL, c.NameAr, valStr(c.NameEn), valStr(c.Icon), c.ID)
	return err
}

// DeleteCategory removes only the category row. Businesses keep their
// stored category_id; the reference is soft.
func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteCategorySQL, id)
	if err != nil {
		return err
	}
	return mustExist(res)
}

func (r *Repo) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	var nameEn, icon sql.NullString
	err := r.db.QueryRowContext(ctx, getCategorySQL, id).Scan(&c.ID, &c.NameAr, &nameEn, &icon)
	if err == sql.ErrNoRows {
		return domain.Category{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Category{}, err
	}
	c.NameEn = ptrStr(nameEn)
	c.Icon = ptrStr(icon)
	return c, nil
}

func (r *Repo) ListCategories(ctx context.Context, limit int) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		var nameEn, icon sql.NullString
		if err := rows.Scan(&c.ID, &c.NameAr, &nameEn, &icon); err != nil {
			return nil, err
		}
		c.NameEn = ptrStr(nameEn)
		c.Icon = ptrStr(icon)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ---- Businesses ----

func (r *Repo) CreateBusiness(ctx context.Context, b domain.Business) error {
	_, err := r.db.ExecContext(ctx, insertBusinessSQL,
		b.ID, b.Name, valStr(b.CategoryID), valStr(b.Description), valStr(b.City),
		valStr(b.Address), valStr(b.Phone), valF64(b.Rating), valF64(b.Latitude),
		valF64(b.Longitude), valList(b.Features), valList(b.Images),
	)
	return err
}

func (r *Repo) UpdateBusiness(ctx context.Context, b domain.Business) error {
	_, err := r.db.ExecContext(ctx, updateBusinessSQL,
		b.Name, valStr(b.CategoryID), valStr(b.Description), valStr(b.City),
		valStr(b.Address), valStr(b.Phone), valF64(b.Rating), valF64(b.Latitude),
		valF64(b.Longitude), valList(b.Features), valList(b.Images), b.ID,
	)
	return err
}

func (r *Repo) DeleteBusiness(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteBusinessSQL, id)
	if err != nil {
		return err
	}
	return mustExist(res)
}

func (r *Repo) GetBusiness(ctx context.Context, id string) (domain.BusinessView, error) {
	row := r.db.QueryRowContext(ctx, getBusinessSQL, id)
	bv, err := scanBusiness(row)
	if err == sql.ErrNoRows {
		return domain.BusinessView{}, domain.ErrNotFound
	}
	return bv, err
}

// ListBusinesses applies the optional filters, orders by name ascending
// and slices by offset. The total count uses the same filters so pages
// stay consistent with the filtered set.
func (r *Repo) ListBusinesses(ctx context.Context, q domain.BusinessQuery) ([]domain.BusinessView, int, error) {
	var where []string
	var args []any
	if q.City != "" {
		where = append(where, "b.city LIKE ?")
		args = append(args, "%"+q.City+"%")
	}
	if q.CategoryID != "" {
		where = append(where, "b.category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.Search != "" {
		where = append(where, "b.name LIKE ?")
		args = append(args, "%"+q.Search+"%")
	}
	cond := ""
	if len(where) > 0 {
		cond = "WHERE " + strings.Join(where, " AND ") + "\n"
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM businesses b\n"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.PageSize
	listArgs := append(append([]any{}, args...), q.PageSize, offset)
	rows, err := r.db.QueryContext(ctx,
		businessSelect+cond+"ORDER BY b.name\nLIMIT ? OFFSET ?", listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.BusinessView
	for rows.Next() {
		bv, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, bv)
	}
	return out, total, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanBusiness(row rowScanner) (domain.BusinessView, error) {
	var bv domain.BusinessView
	var categoryID, description, city, address, phone, catName sql.NullString
	var rating, lat, lon sql.NullFloat64
	var featuresJSON, imagesJSON []byte

	if err := row.Scan(
		&bv.ID, &bv.Name, &categoryID, &description, &city, &address, &phone,
		&rating, &lat, &lon, &featuresJSON, &imagesJSON, &catName,
	); err != nil {
		return domain.BusinessView{}, err
	}

	bv.CategoryID = ptrStr(categoryID)
	bv.Description = ptrStr(description)
	bv.City = ptrStr(city)
	bv.Address = ptrStr(address)
	bv.Phone = ptrStr(phone)
	bv.Rating = ptrF64(rating)
	bv.Latitude = ptrF64(lat)
	bv.Longitude = ptrF64(lon)
	bv.CategoryNameAr = ptrStr(catName)
	if len(featuresJSON) > 0 {
		_ = json.Unmarshal(featuresJSON, &bv.Features)
	}
	if len(imagesJSON) > 0 {
		_ = json.Unmarshal(imagesJSON, &bv.Images)
	}
	return bv, nil
}

// ---- Overview ----

func (r *Repo) CountBusinesses(ctx context.Context) (int, error) {
	return r.count(ctx, countBusinessesSQL)
}

func (r *Repo) CountCategories(ctx context.Context) (int, error) {
	return r.count(ctx, countCategoriesSQL)
}

func (r *Repo) count(ctx context.Context, query string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

func (r *Repo) BusinessesByCity(ctx context.Context) ([]domain.CityCount, error) {
	rows, err := r.db.QueryContext(ctx, businessesByCitySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CityCount
	for rows.Next() {
		var cc domain.CityCount
		if err := rows.Scan(&cc.City, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func mustExist(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
