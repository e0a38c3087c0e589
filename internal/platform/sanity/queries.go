package sanity

// GROQ queries for the documents the backend serves. Asset references are
// resolved to URLs in the query so the renderer only ever sees flat fields.

const SiteSettingsQuery = `*[_type == "siteSettings"][0] {
  _id,
  title,
  companyName,
  phone,
  email,
  callbackReasons[] { label, email },
  callbackFallbackEmail,
  andelshavereTitle,
  andelshavereDescription,
  andelshavereLoginLink
}`

const NewsListQuery = `*[_type == "newsArticle" && showOnPortal == true] | order(publishedAt desc) {
  _id,
  title,
  "slug": slug.current,
  publishedAt,
  excerpt,
  "mainImage": mainImage.asset->url,
  mainImageAlt,
  isPublic
}`

const NewsArticleQuery = `*[_type == "newsArticle" && slug.current == $slug][0] {
  _id,
  title,
  "slug": slug.current,
  publishedAt,
  excerpt,
  "mainImage": mainImage.asset->url,
  mainImageAlt,
  sourceUrl,
  isPublic,
  body[] {
    ...,
    _type == "image" => { "url": asset->url, alt, caption },
    _type == "videoBlock" => {
      _type,
      _key,
      "title": videoRef->title,
      "description": videoRef->description,
      "videoUrl": videoRef->videoFile.asset->url,
      "thumbnail": videoRef->thumbnail.asset->url,
      "thumbnailAlt": videoRef->thumbnailAlt,
      "duration": videoRef->duration
    }
  }
}`

const VidensbaseTopicQuery = `*[_type == "vidensbaseTopic" && slug.current == $slug][0] {
  _id,
  title,
  "slug": slug.current,
  icon,
  shortLabel,
  content[] {
    ...,
    _type == "image" => { "url": asset->url, alt, caption },
    _type == "videoBlock" => {
      _type,
      _key,
      "title": videoRef->title,
      "description": videoRef->description,
      "videoUrl": videoRef->videoFile.asset->url,
      "thumbnail": videoRef->thumbnail.asset->url,
      "thumbnailAlt": videoRef->thumbnailAlt,
      "duration": videoRef->duration
    }
  },
  relatedTopics[]-> { _id, title, "slug": slug.current, icon, shortLabel }
}`
