package anilist

// mediaFields — поля тайтла, общие для списков и карточки.
const mediaFields = `
          id
          title {
            romaji
            english
            native
          }
          coverImage {
            large
            medium
          }
          bannerImage
          description
          episodes
          status
          averageScore
          genres
          seasonYear`

const pageInfoFields = `
        pageInfo {
          total
          currentPage
          lastPage
          hasNextPage
        }`

const searchQuery = `
    query ($search: String, $page: Int, $perPage: Int) {
      Page(page: $page, perPage: $perPage) {` + pageInfoFields + `
        media(search: $search, type: ANIME, sort: POPULARITY_DESC) {` + mediaFields + `
        }
      }
    }`

const trendingQuery = `
    query ($page: Int, $perPage: Int) {
      Page(page: $page, perPage: $perPage) {` + pageInfoFields + `
        media(type: ANIME, sort: TRENDING_DESC) {` + mediaFields + `
        }
      }
    }`

const popularQuery = `
    query ($page: Int, $perPage: Int) {
      Page(page: $page, perPage: $perPage) {` + pageInfoFields + `
        media(type: ANIME, sort: POPULARITY_DESC) {` + mediaFields + `
        }
      }
    }`

const byIDQuery = `
    query ($id: Int) {
      Media(id: $id, type: ANIME) {` + mediaFields + `
        studios {
          nodes {
            name
          }
        }
        relations {
          edges {
            relationType
            node {
              id
              title {
                romaji
              }
              coverImage {
                medium
              }
            }
          }
        }
      }
    }`
