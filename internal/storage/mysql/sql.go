package mysql

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

const listRoomsSQL = `
SELECT code, name, category, direct_rate, platform_rate, capacity, updated_at
FROM rooms
ORDER BY direct_rate DESC, code
`

// The cheapest unit stands in for a category with several rooms.
const getRoomByCategorySQL = `
SELECT code, name, category, direct_rate, platform_rate, capacity, updated_at
FROM rooms
WHERE category = ?
ORDER BY direct_rate ASC, code
LIMIT 1
`

const updateRoomRatesSQL = `
UPDATE rooms
SET direct_rate = ?, platform_rate = ?, updated_at = CURRENT_TIMESTAMP
WHERE code = ?
`

const roomExistsSQL = `SELECT 1 FROM rooms WHERE code = ?`

// -----------------------------------------------------------------------------
// GALLERY
// -----------------------------------------------------------------------------

const insertMediaSQL = `
INSERT INTO gallery_media
  (url, title, description, category, media_type, tags, featured, sort_order)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateMediaSQL = `
UPDATE gallery_media SET
  url         = ?,
  title       = ?,
  description = ?,
  category    = ?,
  media_type  = ?,
  tags        = ?,
  featured    = ?,
  sort_order  = ?
WHERE id = ?
`

const deleteMediaSQL = `DELETE FROM gallery_media WHERE id = ?`

const mediaColumns = `id, url, title, description, category, media_type, tags, featured, sort_order`

// Raw rows in insertion order; the normalizer relies on it for first-wins dedup.
const listMediaSQL = `SELECT ` + mediaColumns + ` FROM gallery_media ORDER BY id`

const getMediaSQL = `SELECT ` + mediaColumns + ` FROM gallery_media WHERE id = ?`

const mediaExistsSQL = `SELECT 1 FROM gallery_media WHERE id = ?`

// -----------------------------------------------------------------------------
// BOOKING INQUIRIES & CONTACT MESSAGES
// -----------------------------------------------------------------------------

const insertInquirySQL = `
INSERT INTO booking_inquiries
  (reference, check_in, check_out, guests, room_category, name, email, special_requests, quoted_total)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listInquiriesSQL = `
SELECT id, reference, check_in, check_out, guests, room_category, name, email,
       special_requests, quoted_total, processed, created_at
FROM booking_inquiries
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

const markInquiryProcessedSQL = `UPDATE booking_inquiries SET processed = TRUE WHERE id = ?`

const inquiryExistsSQL = `SELECT 1 FROM booking_inquiries WHERE id = ?`

// half-open stays overlap when each starts before the other ends
const countOverlappingSQL = `
SELECT COUNT(*)
FROM booking_inquiries
WHERE room_category = ? AND check_in < ? AND check_out > ?
`

const insertContactSQL = `
INSERT INTO contact_messages (name, email, subject, message)
VALUES (?, ?, ?, ?)
`

const listContactsSQL = `
SELECT id, name, email, subject, message, is_read, created_at
FROM contact_messages
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

const markContactReadSQL = `UPDATE contact_messages SET is_read = TRUE WHERE id = ?`

const contactExistsSQL = `SELECT 1 FROM contact_messages WHERE id = ?`
