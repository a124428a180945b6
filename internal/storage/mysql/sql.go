package mysql

// -----------------------------------------------------------------------------
// AUTH
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (id, email, password_hash)
VALUES (?, ?, ?)
`

const insertAdminSQL = `
INSERT INTO admins (id, user_id, email, role)
VALUES (?, ?, ?, ?)
`

const getUserByEmailSQL = `
SELECT id, email, password_hash, created_at
FROM users
WHERE email = ?
`

const getAdminByUserIDSQL = `
SELECT id, user_id, email, role, created_at
FROM admins
WHERE user_id = ?
`

// -----------------------------------------------------------------------------
// CATEGORIES
// -----------------------------------------------------------------------------

const insertCategorySQL = `
INSERT INTO categories (id, name_ar, name_en, icon)
VALUES (?, ?, ?, ?)
`

const updateCategorySQL = `
UPDATE categories
SET name_ar = ?, name_en = ?, icon = ?
WHERE id = ?
`

const deleteCategorySQL = `DELETE FROM categories WHERE id = ?`

const getCategorySQL = `
SELECT id, name_ar, name_en, icon
FROM categories
WHERE id = ?
`

const listCategoriesSQL = `
SELECT id, name_ar, name_en, icon
FROM categories
ORDER BY name_ar
LIMIT ?
`

// -----------------------------------------------------------------------------
// BUSINESSES
// -----------------------------------------------------------------------------

const insertBusinessSQL = `
INSERT INTO businesses
  (id, name, category_id, description, city, address, phone, rating, latitude, longitude, features, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateBusinessSQL = `
UPDATE businesses
SET name = ?, category_id = ?, description = ?, city = ?, address = ?, phone = ?,
    rating = ?, latitude = ?, longitude = ?, features = ?, images = ?
WHERE id = ?
`

const deleteBusinessSQL = `DELETE FROM businesses WHERE id = ?`

// Shared SELECT joining the soft category reference; c.name_ar is NULL when
// the referenced category no longer exists.
const businessSelect = `
SELECT
  b.id,
  b.name,
  b.category_id,
  b.description,
  b.city,
  b.address,
  b.phone,
  b.rating,
  b.latitude,
  b.longitude,
  b.features,
  b.images,
  c.name_ar
FROM businesses b
LEFT JOIN categories c ON c.id = b.category_id
`

const getBusinessSQL = businessSelect + `WHERE b.id = ?`

// -----------------------------------------------------------------------------
// OVERVIEW
// -----------------------------------------------------------------------------

const countBusinessesSQL = `SELECT COUNT(*) FROM businesses`
const countCategoriesSQL = `SELECT COUNT(*) FROM categories`

const businessesByCitySQL = `
SELECT COALESCE(NULLIF(TRIM(city), ''), 'Unknown') AS city, COUNT(*)
FROM businesses
GROUP BY COALESCE(NULLIF(TRIM(city), ''), 'Unknown')
ORDER BY COUNT(*) DESC, city
`
